package models

import (
	"huddle/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timelineRow(actorID uint, action types.TimelineAction, age time.Duration) *TimelineEvent {
	row := &TimelineEvent{
		ActorID:     &actorID,
		SubjectType: types.SUBJECT_POST,
		SubjectID:   1,
		Action:      action,
	}
	row.CreatedAt = time.Now().UTC().Add(-age)
	return row
}

func TestRollupEligibleSameActorInsideWindow(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 10*time.Second)
	candidate := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 0)
	assert.True(t, RollupEligible(last, candidate, now))
}

func TestRollupEligibleOutsideWindow(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 2*time.Minute)
	candidate := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 0)
	assert.False(t, RollupEligible(last, candidate, now))
}

func TestRollupEligibleDifferentActor(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_PINNED, 10*time.Second)
	candidate := timelineRow(6, types.TIMELINE_SUBJECT_UNPINNED, 0)
	assert.False(t, RollupEligible(last, candidate, now))
}

func TestRollupEligibleSymmetricOpposites(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_PINNED, 10*time.Second)
	candidate := timelineRow(5, types.TIMELINE_SUBJECT_UNPINNED, 0)
	assert.True(t, RollupEligible(last, candidate, now))

	last = timelineRow(5, types.TIMELINE_POST_RESOLVED, 10*time.Second)
	candidate = timelineRow(5, types.TIMELINE_POST_UNRESOLVED, 0)
	assert.True(t, RollupEligible(last, candidate, now))
}

func TestRollupEligibleUnrelatedActions(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 10*time.Second)
	candidate := timelineRow(5, types.TIMELINE_SUBJECT_PINNED, 0)
	assert.False(t, RollupEligible(last, candidate, now))
}

func TestRollupEligibleSystemActor(t *testing.T) {
	now := time.Now().UTC()
	last := timelineRow(5, types.TIMELINE_SUBJECT_TITLE_UPDATED, 10*time.Second)
	candidate := &TimelineEvent{
		SubjectType: types.SUBJECT_POST,
		SubjectID:   1,
		Action:      types.TIMELINE_SUBJECT_TITLE_UPDATED,
	}
	assert.False(t, RollupEligible(last, candidate, now))
}

func TestMergeTimelineMetadataKeepsOriginalFrom(t *testing.T) {
	previous := types.JSONB{"from_title": "draft", "to_title": "v2"}
	next := types.JSONB{"from_title": "v2", "to_title": "final"}
	merged, noop := MergeTimelineMetadata(previous, next)
	assert.False(t, noop)
	assert.Equal(t, "draft", merged["from_title"])
	assert.Equal(t, "final", merged["to_title"])
}

func TestMergeTimelineMetadataCancelsRoundTrip(t *testing.T) {
	previous := types.JSONB{"from_title": "original", "to_title": "changed"}
	next := types.JSONB{"from_title": "changed", "to_title": "original"}
	_, noop := MergeTimelineMetadata(previous, next)
	assert.True(t, noop)
}

func TestMergeTimelineMetadataNumericPairs(t *testing.T) {
	previous := types.JSONB{"from_project_id": uint(1), "to_project_id": uint(2)}
	next := types.JSONB{"from_project_id": uint(2), "to_project_id": float64(1)}
	_, noop := MergeTimelineMetadata(previous, next)
	assert.True(t, noop)
}

func TestMergeTimelineMetadataWithoutPairs(t *testing.T) {
	merged, noop := MergeTimelineMetadata(types.JSONB{"project_id": 3}, types.JSONB{"project_id": 3})
	assert.False(t, noop)
	assert.Equal(t, 3, merged["project_id"])
}
