package models

import (
	"encoding/json"
	"huddle/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectPreviousChanges(t *testing.T) {
	event := &Event{
		Metadata: types.JSONB{
			"subject_previous_changes": map[string]any{
				"title": []any{"old", "new"},
			},
		},
	}
	change, ok := event.PreviousChange("title")
	assert.True(t, ok)
	assert.Equal(t, []any{"old", "new"}, change)

	_, ok = event.PreviousChange("description_html")
	assert.False(t, ok)
}

func TestSubjectPreviousChangesAfterJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(types.JSONB{
		"subject_previous_changes": map[string]any{
			"project_id": []any{nil, uint(3)},
		},
	})
	assert.NoError(t, err)
	var metadata types.JSONB
	assert.NoError(t, json.Unmarshal(raw, &metadata))

	event := &Event{Metadata: metadata}
	change, ok := event.PreviousChange("project_id")
	assert.True(t, ok)
	assert.Nil(t, change[0])
	assert.Equal(t, float64(3), change[1])
}

func TestSkipNotifications(t *testing.T) {
	event := &Event{Metadata: types.JSONB{}}
	assert.False(t, event.SkipNotifications())

	event.Metadata["skip_notifications"] = true
	assert.True(t, event.SkipNotifications())
}

func TestActorMembershipID(t *testing.T) {
	id := uint(9)
	event := &Event{ActorType: types.ACTOR_MEMBER, ActorID: &id}
	assert.Equal(t, &id, event.ActorMembershipID())

	event.ActorType = types.ACTOR_APP
	assert.Nil(t, event.ActorMembershipID())

	event.ActorType = types.ACTOR_NONE
	assert.Nil(t, event.ActorMembershipID())
}
