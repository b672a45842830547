package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"
	"huddle/src/utils"

	"gorm.io/gorm"
)

func processNoteCreated(tx *gorm.DB, event *models.Event) error {
	var note models.Note
	if err := tx.First(&note, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if note.DiscardedAt != nil {
		return nil
	}

	if err := models.FindOrCreateSubscription(tx, note.MemberID, types.SUBJECT_NOTE, note.ID); err != nil {
		return err
	}

	if !event.SkipNotifications() {
		actorName := actorDisplayName(tx, event)
		planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
			{Reason: types.REASON_MENTION, MembershipIDs: utils.ExtractMentionedMemberIDs(note.DescriptionHTML)},
		})
		if err := notifyPlanned(tx, event, planned, target{
			Type:          types.SUBJECT_NOTE,
			ID:            note.ID,
			Summary:       fmt.Sprintf("%s mentioned you in %s", actorName, noteLabel(&note)),
			BodyPreview:   note.Title,
			SubscribeType: types.SUBJECT_NOTE,
			SubscribeID:   note.ID,
		}, nil); err != nil {
			return err
		}
		enqueueAppMentions(tx, note.OrganizationID, utils.ExtractMentionedAppIDs(note.DescriptionHTML), map[string]any{
			"note_id": note.ID,
		})
	}

	if err := models.SyncReferenceTimelineEvents(
		tx, event.ActorMembershipID(), types.SUBJECT_NOTE, note.ID,
		utils.ExtractSubjectReferences(note.DescriptionHTML),
	); err != nil {
		return err
	}

	if note.ProjectID != nil {
		var project models.Project
		if err := tx.First(&project, *note.ProjectID).Error; err == nil {
			project.UpdateLastActivityAt(tx)
		}
	}
	return nil
}

func processNoteUpdated(tx *gorm.DB, event *models.Event) error {
	var note models.Note
	if err := tx.First(&note, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if note.DiscardedAt != nil {
		return nil
	}
	actorName := actorDisplayName(tx, event)

	if change, ok := event.PreviousChange("description_html"); ok {
		oldContent, newContent := stringChange(change)
		if !event.SkipNotifications() {
			planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
				{Reason: types.REASON_MENTION, MembershipIDs: utils.AddedMentionedMemberIDs(oldContent, newContent)},
			})
			if err := notifyPlanned(tx, event, planned, target{
				Type:          types.SUBJECT_NOTE,
				ID:            note.ID,
				Summary:       fmt.Sprintf("%s mentioned you in %s", actorName, noteLabel(&note)),
				BodyPreview:   note.Title,
				SubscribeType: types.SUBJECT_NOTE,
				SubscribeID:   note.ID,
			}, nil); err != nil {
				return err
			}
			enqueueAppMentions(tx, note.OrganizationID, utils.AddedMentionedAppIDs(oldContent, newContent), map[string]any{
				"note_id": note.ID,
			})
		}
		if err := models.SyncReferenceTimelineEvents(
			tx, event.ActorMembershipID(), types.SUBJECT_NOTE, note.ID,
			utils.ExtractSubjectReferences(newContent),
		); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("title"); ok {
		from, to := stringChange(change)
		if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
			ActorID:     event.ActorMembershipID(),
			SubjectType: types.SUBJECT_NOTE,
			SubjectID:   note.ID,
			Action:      types.TIMELINE_SUBJECT_TITLE_UPDATED,
			Metadata:    types.JSONB{"from_title": from, "to_title": to},
		}); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("project_id"); ok {
		if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
			ActorID:     event.ActorMembershipID(),
			SubjectType: types.SUBJECT_NOTE,
			SubjectID:   note.ID,
			Action:      types.TIMELINE_SUBJECT_PROJECT_UPDATED,
			Metadata:    types.JSONB{"from_project_id": change[0], "to_project_id": change[1]},
		}); err != nil {
			return err
		}
	}
	return nil
}

func processNoteDestroyed(tx *gorm.DB, event *models.Event) error {
	models.DiscardNotificationsForTarget(tx, types.SUBJECT_NOTE, event.SubjectID, types.SCOPE_NONE)
	models.DestroyFollowUps(tx, types.SUBJECT_NOTE, event.SubjectID)
	models.DestroyFavorites(tx, types.SUBJECT_NOTE, event.SubjectID)
	if err := models.DiscardProjectPins(tx, types.SUBJECT_NOTE, event.SubjectID); err != nil {
		return err
	}
	models.DeleteTimelineEventsForSubject(tx, types.SUBJECT_NOTE, event.SubjectID)
	models.DeleteReferenceTimelineEvents(tx, types.SUBJECT_NOTE, event.SubjectID)
	return nil
}

func noteLabel(note *models.Note) string {
	if note.Title != "" {
		return note.Title
	}
	return "a note"
}
