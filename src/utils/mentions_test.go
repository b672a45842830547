package utils

import (
	"huddle/src/models"
	"huddle/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentionedMemberIDs(t *testing.T) {
	content := `<p>Hey <span data-type="mention" data-id="7">@alice</span> and <span data-type="mention" data-id="12">@bob</span></p>`
	ids := ExtractMentionedMemberIDs(content)
	assert.Equal(t, []uint{7, 12}, ids)
}

func TestExtractMentionedMemberIDsDeduplicates(t *testing.T) {
	content := `<p><span data-type="mention" data-id="7">@alice</span> again <span data-type="mention" data-id="7">@alice</span></p>`
	ids := ExtractMentionedMemberIDs(content)
	assert.Equal(t, []uint{7}, ids)
}

func TestExtractMentionedMemberIDsIgnoresAppMentions(t *testing.T) {
	content := `<p><span data-type="mention" data-id="3" data-role="app">@bot</span> <span data-type="mention" data-id="9">@carol</span></p>`
	assert.Equal(t, []uint{9}, ExtractMentionedMemberIDs(content))
	assert.Equal(t, []uint{3}, ExtractMentionedAppIDs(content))
}

func TestExtractMentionedMemberIDsIgnoresPlainSpans(t *testing.T) {
	content := `<p><span data-id="7">not a mention</span> <span data-type="mention">no id</span></p>`
	assert.Empty(t, ExtractMentionedMemberIDs(content))
}

func TestExtractSubjectReferences(t *testing.T) {
	content := `<p>See <a href="https://app.example.com/acme/posts/42">this post</a> and <a href="/acme/notes/7#section">the notes</a></p>`
	refs := ExtractSubjectReferences(content)
	assert.Equal(t, []models.SubjectReference{
		{Type: types.SUBJECT_POST, ID: 42},
		{Type: types.SUBJECT_NOTE, ID: 7},
	}, refs)
}

func TestExtractSubjectReferencesDeduplicates(t *testing.T) {
	content := `<p><a href="/acme/posts/42">one</a> <a href="/acme/posts/42?foo=bar">two</a></p>`
	refs := ExtractSubjectReferences(content)
	assert.Len(t, refs, 1)
}

func TestExtractSubjectReferencesIgnoresOtherLinks(t *testing.T) {
	content := `<p><a href="https://example.com/pricing">pricing</a> <a href="/acme/members/3">a member</a></p>`
	assert.Empty(t, ExtractSubjectReferences(content))
}

func TestAddedMentionedMemberIDs(t *testing.T) {
	oldContent := `<p><span data-type="mention" data-id="7">@alice</span></p>`
	newContent := `<p><span data-type="mention" data-id="7">@alice</span> <span data-type="mention" data-id="12">@bob</span></p>`
	assert.Equal(t, []uint{12}, AddedMentionedMemberIDs(oldContent, newContent))
}

func TestAddedMentionedMemberIDsEmptyWhenMentionRemoved(t *testing.T) {
	oldContent := `<p><span data-type="mention" data-id="7">@alice</span></p>`
	newContent := `<p>no mentions left</p>`
	assert.Empty(t, AddedMentionedMemberIDs(oldContent, newContent))
}
