package models

import (
	"huddle/src/config"
	"huddle/src/lib"
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// Event is an append-only record of a mutation. Rows are never updated after
// creation except for the processed_at stamp.
type Event struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	OrganizationID uint              `json:"organization_id,omitempty"`
	ActorType      types.ActorType   `json:"actor_type,omitempty"`
	ActorID        *uint             `json:"actor_id,omitempty"`
	SubjectType    types.SubjectType `json:"subject_type,omitempty"`
	SubjectID      uint              `json:"subject_id,omitempty"`
	Action         types.EventAction `json:"action,omitempty"`
	Metadata       types.JSONB       `gorm:"type:jsonb" json:"metadata,omitempty"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`

	types.Timestamps
}

// RecordEvent appends the event inside the caller's transaction so the event
// commits or rolls back with the mutation it describes.
func RecordEvent(tx *gorm.DB, event *Event) error {
	return tx.Create(event).Error
}

// EnqueueProcess hands the event to the processing consumer. Delivery is at
// least once; processors must tolerate replays.
func (e *Event) EnqueueProcess() {
	lib.KafkaProduceMessage("events", config.TOPIC_EVENTS_PROCESS, map[string]any{
		"event_id": e.ID,
	})
}

func (e *Event) MarkProcessed(tx *gorm.DB) {
	now := time.Now().UTC()
	if err := tx.
		Model(&Event{}).
		Where(&Event{ID: e.ID}).
		UpdateColumn("processed_at", now).
		Error; err != nil {
		log.Printf("Error marking event [%d] processed: %s\n", e.ID, err.Error())
	}
}

// SkipNotifications reports whether the mutation opted out of the notify
// pipeline. Timeline and cleanup side effects still run.
func (e *Event) SkipNotifications() bool {
	if v, ok := e.Metadata["skip_notifications"].(bool); ok {
		return v
	}
	return false
}

// SubjectPreviousChanges returns the changed attributes captured when the
// event was recorded, keyed by column with [from, to] pairs.
func (e *Event) SubjectPreviousChanges() map[string][]any {
	changes := map[string][]any{}
	raw, ok := e.Metadata["subject_previous_changes"]
	if !ok {
		return changes
	}
	switch m := raw.(type) {
	case map[string]any:
		for field, pair := range m {
			if vals, ok := pair.([]any); ok {
				changes[field] = vals
			}
		}
	case map[string][]any:
		for field, vals := range m {
			changes[field] = vals
		}
	}
	return changes
}

// PreviousChange returns the [from, to] pair for one attribute when the event
// captured a change to it.
func (e *Event) PreviousChange(field string) ([]any, bool) {
	vals, ok := e.SubjectPreviousChanges()[field]
	if !ok || len(vals) != 2 {
		return nil, false
	}
	return vals, true
}

// ActorMembershipID returns the acting membership when a member performed the
// mutation; system and application actors return nil.
func (e *Event) ActorMembershipID() *uint {
	if e.ActorType != types.ACTOR_MEMBER {
		return nil
	}
	return e.ActorID
}
