package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"
	"huddle/src/utils"

	"gorm.io/gorm"
)

func processCommentCreated(tx *gorm.DB, event *models.Event) error {
	var comment models.Comment
	if err := tx.First(&comment, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if comment.DiscardedAt != nil || commentSubjectDraft(tx, &comment) {
		return nil
	}

	if err := models.FindOrCreateSubscription(tx, comment.MemberID, comment.SubjectType, comment.SubjectID); err != nil {
		return err
	}

	if !event.SkipNotifications() {
		actorName := actorDisplayName(tx, event)
		label := commentSubjectLabel(tx, &comment)

		parentAuthorIDs := []uint{}
		if comment.Reply() {
			var parent models.Comment
			if err := tx.First(&parent, *comment.ParentID).Error; err == nil {
				parentAuthorIDs = append(parentAuthorIDs, parent.MemberID)
			}
		}

		planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
			{Reason: types.REASON_MENTION, MembershipIDs: utils.ExtractMentionedMemberIDs(comment.BodyHTML)},
			{Reason: types.REASON_AUTHOR, MembershipIDs: parentAuthorIDs},
			{Reason: types.REASON_PARENT_SUBSCRIPTION, MembershipIDs: comment.SubscriberMembershipIDs(tx)},
		})
		summaries := map[types.NotificationReason]string{
			types.REASON_MENTION:             fmt.Sprintf("%s mentioned you in a comment on %s", actorName, label),
			types.REASON_AUTHOR:              fmt.Sprintf("%s replied to your comment on %s", actorName, label),
			types.REASON_PARENT_SUBSCRIPTION: fmt.Sprintf("%s commented on %s", actorName, label),
		}
		if err := notifyPlanned(tx, event, planned, target{
			Type:          types.SUBJECT_COMMENT,
			ID:            comment.ID,
			SubscribeType: comment.SubjectType,
			SubscribeID:   comment.SubjectID,
		}, summaries); err != nil {
			return err
		}

		organizationID, err := models.SubjectOrganizationID(tx, comment.SubjectType, comment.SubjectID)
		if err == nil {
			enqueueWebhookEvent(organizationID, types.WEBHOOK_COMMENT_CREATED, map[string]any{
				"comment_id": comment.ID,
			})
			enqueueAppMentions(tx, organizationID, utils.ExtractMentionedAppIDs(comment.BodyHTML), map[string]any{
				"comment_id": comment.ID,
			})
		}
	}

	if err := models.SyncReferenceTimelineEvents(
		tx, event.ActorMembershipID(), types.SUBJECT_COMMENT, comment.ID,
		utils.ExtractSubjectReferences(comment.BodyHTML),
	); err != nil {
		return err
	}

	touchCommentSubject(tx, &comment)
	return nil
}

func processCommentUpdated(tx *gorm.DB, event *models.Event) error {
	var comment models.Comment
	if err := tx.First(&comment, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if comment.DiscardedAt != nil || commentSubjectDraft(tx, &comment) {
		return nil
	}
	actorName := actorDisplayName(tx, event)

	if change, ok := event.PreviousChange("body_html"); ok {
		oldContent, newContent := stringChange(change)
		if !event.SkipNotifications() {
			label := commentSubjectLabel(tx, &comment)
			planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
				{Reason: types.REASON_MENTION, MembershipIDs: utils.AddedMentionedMemberIDs(oldContent, newContent)},
			})
			if err := notifyPlanned(tx, event, planned, target{
				Type:          types.SUBJECT_COMMENT,
				ID:            comment.ID,
				Summary:       fmt.Sprintf("%s mentioned you in a comment on %s", actorName, label),
				SubscribeType: comment.SubjectType,
				SubscribeID:   comment.SubjectID,
			}, nil); err != nil {
				return err
			}
			organizationID, err := models.SubjectOrganizationID(tx, comment.SubjectType, comment.SubjectID)
			if err == nil {
				enqueueAppMentions(tx, organizationID, utils.AddedMentionedAppIDs(oldContent, newContent), map[string]any{
					"comment_id": comment.ID,
				})
			}
		}
		if err := models.SyncReferenceTimelineEvents(
			tx, event.ActorMembershipID(), types.SUBJECT_COMMENT, comment.ID,
			utils.ExtractSubjectReferences(newContent),
		); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("resolved_at"); ok && !event.SkipNotifications() {
		switch {
		case change[0] == nil && change[1] != nil:
			planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
				{Reason: types.REASON_COMMENT_RESOLVED, MembershipIDs: []uint{comment.MemberID}},
			})
			if err := notifyPlanned(tx, event, planned, target{
				Type:    types.SUBJECT_COMMENT,
				ID:      comment.ID,
				Summary: fmt.Sprintf("%s resolved your comment on %s", actorName, commentSubjectLabel(tx, &comment)),
			}, nil); err != nil {
				return err
			}
		case change[0] != nil && change[1] == nil:
			models.DiscardNotificationsForReasons(tx, types.SUBJECT_COMMENT, comment.ID, []types.NotificationReason{
				types.REASON_COMMENT_RESOLVED,
			})
		}
	}
	return nil
}

// A destroyed comment takes its direct replies' notifications with it; the
// replies are unreachable once the parent is gone.
func processCommentDestroyed(tx *gorm.DB, event *models.Event) error {
	models.DiscardNotificationsForTarget(tx, types.SUBJECT_COMMENT, event.SubjectID, types.SCOPE_NONE)
	models.DestroyFollowUps(tx, types.SUBJECT_COMMENT, event.SubjectID)
	models.DeleteReferenceTimelineEvents(tx, types.SUBJECT_COMMENT, event.SubjectID)

	var comment models.Comment
	if err := tx.Unscoped().First(&comment, event.SubjectID).Error; err != nil {
		return nil
	}
	for _, replyID := range comment.ReplyIDs(tx) {
		models.DiscardNotificationsForTarget(tx, types.SUBJECT_COMMENT, replyID, types.SCOPE_NONE)
		models.DestroyFollowUps(tx, types.SUBJECT_COMMENT, replyID)
		models.DeleteReferenceTimelineEvents(tx, types.SUBJECT_COMMENT, replyID)
	}
	return nil
}

func commentSubjectDraft(tx *gorm.DB, comment *models.Comment) bool {
	if comment.SubjectType != types.SUBJECT_POST {
		return false
	}
	var post models.Post
	if err := tx.First(&post, comment.SubjectID).Error; err != nil {
		return false
	}
	return post.Draft
}

func commentSubjectLabel(tx *gorm.DB, comment *models.Comment) string {
	switch comment.SubjectType {
	case types.SUBJECT_POST:
		var post models.Post
		if err := tx.First(&post, comment.SubjectID).Error; err == nil {
			return postLabel(&post)
		}
	case types.SUBJECT_NOTE:
		var note models.Note
		if err := tx.First(&note, comment.SubjectID).Error; err == nil && note.Title != "" {
			return note.Title
		}
	}
	return "a post"
}

func touchCommentSubject(tx *gorm.DB, comment *models.Comment) {
	switch comment.SubjectType {
	case types.SUBJECT_POST:
		var post models.Post
		if err := tx.First(&post, comment.SubjectID).Error; err == nil {
			post.UpdateLastActivityAt(tx)
		}
	case types.SUBJECT_NOTE:
		var note models.Note
		if err := tx.First(&note, comment.SubjectID).Error; err == nil {
			note.UpdateLastActivityAt(tx)
		}
	}
}
