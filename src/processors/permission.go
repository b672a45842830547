package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"
	"log"

	"gorm.io/gorm"
)

// Only note permissions notify; other grants are plumbing.
func processPermissionCreated(tx *gorm.DB, event *models.Event) error {
	var permission models.Permission
	if err := tx.First(&permission, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if permission.SubjectType != types.SUBJECT_NOTE || !permission.Kept() {
		return nil
	}

	var note models.Note
	if err := tx.First(&note, permission.SubjectID).Error; err != nil {
		return nil
	}
	membershipID, ok := membershipForUser(tx, permission.UserID, note.OrganizationID)
	if !ok {
		return nil
	}

	// The grantee follows the note from the moment of the grant, even when
	// the grant itself is silent.
	if err := models.FindOrCreateSubscription(tx, membershipID, types.SUBJECT_NOTE, note.ID); err != nil {
		return err
	}
	if event.SkipNotifications() {
		return nil
	}

	actorName := actorDisplayName(tx, event)
	planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
		{Reason: types.REASON_PERMISSION_GRANTED, MembershipIDs: []uint{membershipID}},
	})
	return notifyPlanned(tx, event, planned, target{
		Type:        types.SUBJECT_NOTE,
		ID:          note.ID,
		Scope:       types.SCOPE_PERMISSION,
		Summary:     fmt.Sprintf("%s shared %s with you", actorName, noteLabel(&note)),
		BodyPreview: note.Title,
	}, nil)
}

// Revoking a permission withdraws the grant notification, and when the member
// has no remaining path to the note, every other notification pointing them
// at it plus their subscription, follow ups, and favorites.
func processPermissionDestroyed(tx *gorm.DB, event *models.Event) error {
	var permission models.Permission
	if err := tx.Unscoped().First(&permission, event.SubjectID).Error; err != nil {
		return nil
	}
	if permission.SubjectType != types.SUBJECT_NOTE {
		return nil
	}
	var note models.Note
	if err := tx.First(&note, permission.SubjectID).Error; err != nil {
		return nil
	}
	membershipID, ok := membershipForUser(tx, permission.UserID, note.OrganizationID)
	if !ok {
		return nil
	}

	if note.ViewableBy(tx, membershipID) {
		models.DiscardMemberNotificationsForTarget(tx, membershipID, types.SUBJECT_NOTE, note.ID, types.SCOPE_PERMISSION)
		return nil
	}
	models.DiscardMemberNotificationsForTarget(tx, membershipID, types.SUBJECT_NOTE, note.ID, types.SCOPE_NONE)
	if err := models.DestroySubscription(tx, membershipID, types.SUBJECT_NOTE, note.ID); err != nil {
		return err
	}
	models.DestroyMemberFollowUps(tx, membershipID, types.SUBJECT_NOTE, note.ID)
	models.DestroyMemberFavorites(tx, membershipID, types.SUBJECT_NOTE, note.ID)
	return nil
}

func membershipForUser(tx *gorm.DB, userID uint, organizationID uint) (uint, bool) {
	var membership models.OrganizationMembership
	err := tx.
		Where(&models.OrganizationMembership{UserID: userID, OrganizationID: organizationID}).
		Where("discarded_at IS NULL").
		First(&membership).
		Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[processors] Error loading membership for user [%d]: %s\n", userID, err.Error())
		}
		return 0, false
	}
	return membership.ID, true
}
