package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"

	"gorm.io/gorm"
)

// Reactions notify the author of the reacted-to record. Chat messages are
// excluded; their feedback loop is immediate enough already.
func processReactionCreated(tx *gorm.DB, event *models.Event) error {
	var reaction models.Reaction
	if err := tx.First(&reaction, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if reaction.DiscardedAt != nil || reaction.SubjectType == types.SUBJECT_MESSAGE {
		return nil
	}
	if event.SkipNotifications() {
		return nil
	}

	authorID, label, ok := reactionSubjectAuthor(tx, &reaction)
	if !ok {
		return nil
	}

	actorName := actorDisplayName(tx, event)
	planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
		{Reason: types.REASON_AUTHOR, MembershipIDs: []uint{authorID}},
	})
	return notifyPlanned(tx, event, planned, target{
		Type:    reaction.SubjectType,
		ID:      reaction.SubjectID,
		Scope:   types.SCOPE_REACTION,
		Summary: fmt.Sprintf("%s reacted %s to %s", actorName, reaction.Content, label),
	}, nil)
}

func processReactionDestroyed(tx *gorm.DB, event *models.Event) error {
	var reaction models.Reaction
	if err := tx.Unscoped().First(&reaction, event.SubjectID).Error; err != nil {
		return nil
	}
	models.DiscardActorNotificationsForTarget(
		tx, reaction.MemberID, reaction.SubjectType, reaction.SubjectID, types.SCOPE_REACTION,
	)
	return nil
}

func reactionSubjectAuthor(tx *gorm.DB, reaction *models.Reaction) (uint, string, bool) {
	switch reaction.SubjectType {
	case types.SUBJECT_POST:
		var post models.Post
		if err := tx.First(&post, reaction.SubjectID).Error; err != nil || post.Draft {
			return 0, "", false
		}
		return post.MemberID, "your post", true
	case types.SUBJECT_COMMENT:
		var comment models.Comment
		if err := tx.First(&comment, reaction.SubjectID).Error; err != nil {
			return 0, "", false
		}
		if commentSubjectDraft(tx, &comment) {
			return 0, "", false
		}
		return comment.MemberID, "your comment", true
	case types.SUBJECT_NOTE:
		var note models.Note
		if err := tx.First(&note, reaction.SubjectID).Error; err != nil {
			return 0, "", false
		}
		return note.MemberID, "your note", true
	default:
		return 0, "", false
	}
}
