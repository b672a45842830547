package processors

import (
	"huddle/src/db"
	"huddle/src/models"
	"huddle/src/types"
	"log"

	"gorm.io/gorm"
)

// Key selects the processor for an event.
type Key struct {
	Subject types.SubjectType
	Action  types.EventAction
}

type processorFunc func(tx *gorm.DB, event *models.Event) error

var registry = map[Key]processorFunc{
	{types.SUBJECT_POST, types.EVENT_CREATED}:   processPostCreated,
	{types.SUBJECT_POST, types.EVENT_PUBLISHED}: processPostPublished,
	{types.SUBJECT_POST, types.EVENT_UPDATED}:   processPostUpdated,
	{types.SUBJECT_POST, types.EVENT_DESTROYED}: processPostDestroyed,

	{types.SUBJECT_COMMENT, types.EVENT_CREATED}:   processCommentCreated,
	{types.SUBJECT_COMMENT, types.EVENT_UPDATED}:   processCommentUpdated,
	{types.SUBJECT_COMMENT, types.EVENT_DESTROYED}: processCommentDestroyed,

	{types.SUBJECT_NOTE, types.EVENT_CREATED}:   processNoteCreated,
	{types.SUBJECT_NOTE, types.EVENT_UPDATED}:   processNoteUpdated,
	{types.SUBJECT_NOTE, types.EVENT_DESTROYED}: processNoteDestroyed,

	{types.SUBJECT_REACTION, types.EVENT_CREATED}:   processReactionCreated,
	{types.SUBJECT_REACTION, types.EVENT_DESTROYED}: processReactionDestroyed,

	{types.SUBJECT_PERMISSION, types.EVENT_CREATED}:   processPermissionCreated,
	{types.SUBJECT_PERMISSION, types.EVENT_DESTROYED}: processPermissionDestroyed,

	{types.SUBJECT_PROJECT_MEMBERSHIP, types.EVENT_CREATED}:   processProjectMembershipCreated,
	{types.SUBJECT_PROJECT_MEMBERSHIP, types.EVENT_DESTROYED}: processProjectMembershipDestroyed,

	{types.SUBJECT_PROJECT_PIN, types.EVENT_CREATED}:   processProjectPinCreated,
	{types.SUBJECT_PROJECT_PIN, types.EVENT_UPDATED}:   processProjectPinUpdated,
	{types.SUBJECT_PROJECT_PIN, types.EVENT_DESTROYED}: processProjectPinDestroyed,

	{types.SUBJECT_CALL, types.EVENT_UPDATED}: processCallUpdated,
}

// ProcessEvent runs the processor registered for the event's subject and
// action inside one transaction. Unregistered pairs are a no-op. Processing
// is idempotent, so an at-least-once consumer can replay it safely.
func ProcessEvent(eventID uint) error {
	conn := db.GetDb()
	var event models.Event
	if err := conn.First(&event, eventID).Error; err != nil {
		log.Printf("[processors] Error loading event [%d]: %s\n", eventID, err.Error())
		return err
	}
	fn, ok := registry[Key{Subject: event.SubjectType, Action: event.Action}]
	if !ok {
		return nil
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := fn(tx, &event); err != nil {
			return err
		}
		event.MarkProcessed(tx)
		return nil
	})
}
