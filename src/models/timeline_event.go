package models

import (
	"fmt"
	"huddle/src/config"
	"huddle/src/types"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TimelineEvent is an activity row on a subject's timeline. Rapid edits by
// the same actor roll up into one row instead of stacking.
type TimelineEvent struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	ActorID       *uint                `json:"actor_id,omitempty"`
	SubjectType   types.SubjectType    `json:"subject_type,omitempty"`
	SubjectID     uint                 `json:"subject_id,omitempty"`
	Action        types.TimelineAction `json:"action,omitempty"`
	Metadata      types.JSONB          `gorm:"type:jsonb" json:"metadata,omitempty"`
	ReferenceType types.SubjectType    `json:"reference_type,omitempty"`
	ReferenceID   uint                 `json:"reference_id,omitempty"`

	types.Timestamps
}

// SubjectReference points at a record linked from rich text content.
type SubjectReference struct {
	Type types.SubjectType
	ID   uint
}

var symmetricActions = map[types.TimelineAction]types.TimelineAction{
	types.TIMELINE_SUBJECT_PINNED:   types.TIMELINE_SUBJECT_UNPINNED,
	types.TIMELINE_SUBJECT_UNPINNED: types.TIMELINE_SUBJECT_PINNED,
	types.TIMELINE_POST_RESOLVED:    types.TIMELINE_POST_UNRESOLVED,
	types.TIMELINE_POST_UNRESOLVED:  types.TIMELINE_POST_RESOLVED,
}

// SyncTimelineEvent appends a timeline row, rolling it up against the
// subject's latest row of the same action family when the same actor acted
// within the rollup window. Rows from unrelated actions never block a rollup.
// A symmetric opposite inside the window cancels both rows; a repeated
// metadata action merges, keeping the oldest from value, and cancels when
// the merge lands back where it started.
func SyncTimelineEvent(tx *gorm.DB, event *TimelineEvent) error {
	actions := []types.TimelineAction{event.Action}
	if opposite, ok := symmetricActions[event.Action]; ok {
		actions = append(actions, opposite)
	}
	var last TimelineEvent
	err := tx.
		Where(&TimelineEvent{SubjectType: event.SubjectType, SubjectID: event.SubjectID}).
		Where("action IN ?", actions).
		Order("created_at DESC").
		First(&last).
		Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil && RollupEligible(&last, event, time.Now().UTC()) {
		if opposite, ok := symmetricActions[event.Action]; ok && last.Action == opposite {
			return tx.Delete(&last).Error
		}
		if last.Action == event.Action {
			merged, noop := MergeTimelineMetadata(last.Metadata, event.Metadata)
			if noop {
				return tx.Delete(&last).Error
			}
			last.Metadata = merged
			return tx.Save(&last).Error
		}
	}
	return tx.Create(event).Error
}

// RollupEligible reports whether the candidate row may roll up into the
// subject's latest row: same actor, inside the rollup window, and the actions
// are equal or symmetric opposites.
func RollupEligible(last *TimelineEvent, candidate *TimelineEvent, now time.Time) bool {
	if last.ActorID == nil || candidate.ActorID == nil {
		return false
	}
	if *last.ActorID != *candidate.ActorID {
		return false
	}
	if now.Sub(last.CreatedAt) > config.ROLLUP_THRESHOLD {
		return false
	}
	if last.Action == candidate.Action {
		return true
	}
	return symmetricActions[candidate.Action] == last.Action
}

// MergeTimelineMetadata folds a newer change into an existing rollup row.
// from_* keys keep the rollup's original values, to_* keys take the newer
// ones. The second return is true when every from/to pair collapsed to equal
// values and the row nets out to nothing.
func MergeTimelineMetadata(previous types.JSONB, next types.JSONB) (types.JSONB, bool) {
	merged := types.JSONB{}
	for key, value := range next {
		merged[key] = value
	}
	for key, value := range previous {
		if strings.HasPrefix(key, "from_") {
			merged[key] = value
		}
	}
	pairs := 0
	for key, value := range merged {
		if !strings.HasPrefix(key, "from_") {
			continue
		}
		pairs++
		to := "to_" + strings.TrimPrefix(key, "from_")
		if fmt.Sprint(value) != fmt.Sprint(merged[to]) {
			return merged, false
		}
	}
	return merged, pairs > 0
}

// SyncReferenceTimelineEvents reconciles the subject_referenced rows produced
// by one piece of content against the subjects it currently links to. New
// links gain a row on the referenced subject, dropped links lose theirs, and
// a subject referencing itself is ignored.
func SyncReferenceTimelineEvents(tx *gorm.DB, actorID *uint, referenceType types.SubjectType, referenceID uint, refs []SubjectReference) error {
	var existing []TimelineEvent
	if err := tx.
		Where(&TimelineEvent{
			Action:        types.TIMELINE_SUBJECT_REFERENCED,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
		}).
		Find(&existing).
		Error; err != nil {
		return err
	}

	seen := map[SubjectReference]bool{}
	for _, row := range existing {
		seen[SubjectReference{Type: row.SubjectType, ID: row.SubjectID}] = true
	}

	wanted := map[SubjectReference]bool{}
	for _, ref := range refs {
		if ref.Type == referenceType && ref.ID == referenceID {
			continue
		}
		if wanted[ref] {
			continue
		}
		wanted[ref] = true
		if seen[ref] {
			continue
		}
		if err := tx.Create(&TimelineEvent{
			ActorID:       actorID,
			SubjectType:   ref.Type,
			SubjectID:     ref.ID,
			Action:        types.TIMELINE_SUBJECT_REFERENCED,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
		}).Error; err != nil {
			return err
		}
	}

	for _, row := range existing {
		if wanted[SubjectReference{Type: row.SubjectType, ID: row.SubjectID}] {
			continue
		}
		if err := tx.Delete(&TimelineEvent{}, row.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteReferenceTimelineEvents removes every subject_referenced row produced
// by the given content, used when that content is destroyed.
func DeleteReferenceTimelineEvents(tx *gorm.DB, referenceType types.SubjectType, referenceID uint) {
	if err := tx.
		Where(&TimelineEvent{
			Action:        types.TIMELINE_SUBJECT_REFERENCED,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
		}).
		Delete(&TimelineEvent{}).
		Error; err != nil {
		log.Printf("Error deleting reference timeline events for %s [%d]: %s\n", referenceType, referenceID, err.Error())
	}
}

// DeleteTimelineEventsForSubject clears a destroyed subject's own timeline.
func DeleteTimelineEventsForSubject(tx *gorm.DB, subjectType types.SubjectType, subjectID uint) {
	if err := tx.
		Where(&TimelineEvent{SubjectType: subjectType, SubjectID: subjectID}).
		Delete(&TimelineEvent{}).
		Error; err != nil {
		log.Printf("Error deleting timeline events for %s [%d]: %s\n", subjectType, subjectID, err.Error())
	}
}
