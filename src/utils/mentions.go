package utils

import (
	"huddle/src/models"
	"huddle/src/types"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var referencePathPattern = regexp.MustCompile(`/(posts|notes|calls)/(\d+)(?:[/?#]|$)`)

var referencePathTypes = map[string]types.SubjectType{
	"posts": types.SUBJECT_POST,
	"notes": types.SUBJECT_NOTE,
	"calls": types.SUBJECT_CALL,
}

// ExtractMentionedMemberIDs pulls membership ids out of mention spans in rich
// text content. Duplicate mentions collapse to one id.
func ExtractMentionedMemberIDs(content string) []uint {
	return extractMentionIDs(content, "member")
}

// ExtractMentionedAppIDs pulls integration ids out of app mention spans.
func ExtractMentionedAppIDs(content string) []uint {
	return extractMentionIDs(content, "app")
}

func extractMentionIDs(content string, role string) []uint {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}
	ids := []uint{}
	seen := map[uint]bool{}
	walk(root, func(node *html.Node) {
		if node.Type != html.ElementNode || node.Data != "span" {
			return
		}
		attrs := attrMap(node)
		if attrs["data-type"] != "mention" {
			return
		}
		nodeRole := attrs["data-role"]
		if nodeRole == "" {
			nodeRole = "member"
		}
		if nodeRole != role {
			return
		}
		id, err := strconv.ParseUint(attrs["data-id"], 10, 64)
		if err != nil || id == 0 {
			return
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	})
	return ids
}

// ExtractSubjectReferences pulls linked posts, notes and calls out of anchor
// hrefs in rich text content, deduplicated in document order.
func ExtractSubjectReferences(content string) []models.SubjectReference {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}
	refs := []models.SubjectReference{}
	seen := map[models.SubjectReference]bool{}
	walk(root, func(node *html.Node) {
		if node.Type != html.ElementNode || node.Data != "a" {
			return
		}
		href := attrMap(node)["href"]
		match := referencePathPattern.FindStringSubmatch(href)
		if match == nil {
			return
		}
		id, err := strconv.ParseUint(match[2], 10, 64)
		if err != nil || id == 0 {
			return
		}
		ref := models.SubjectReference{Type: referencePathTypes[match[1]], ID: uint(id)}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	})
	return refs
}

// AddedMentionedMemberIDs returns the members mentioned in the new content
// but not the old, for notifying on edits without re-pinging everyone.
func AddedMentionedMemberIDs(oldContent string, newContent string) []uint {
	previous := map[uint]bool{}
	for _, id := range ExtractMentionedMemberIDs(oldContent) {
		previous[id] = true
	}
	added := []uint{}
	for _, id := range ExtractMentionedMemberIDs(newContent) {
		if !previous[id] {
			added = append(added, id)
		}
	}
	return added
}

// AddedMentionedAppIDs mirrors AddedMentionedMemberIDs for app mentions.
func AddedMentionedAppIDs(oldContent string, newContent string) []uint {
	previous := map[uint]bool{}
	for _, id := range ExtractMentionedAppIDs(oldContent) {
		previous[id] = true
	}
	added := []uint{}
	for _, id := range ExtractMentionedAppIDs(newContent) {
		if !previous[id] {
			added = append(added, id)
		}
	}
	return added
}

func walk(node *html.Node, visit func(*html.Node)) {
	visit(node)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attrMap(node *html.Node) map[string]string {
	attrs := map[string]string{}
	for _, attr := range node.Attr {
		attrs[attr.Key] = attr.Val
	}
	return attrs
}
