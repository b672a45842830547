package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"

	"gorm.io/gorm"
)

func processProjectMembershipCreated(tx *gorm.DB, event *models.Event) error {
	var membership models.ProjectMembership
	if err := tx.First(&membership, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	// App memberships grant access but never notify.
	if membership.OrganizationMembershipID == nil || membership.DiscardedAt != nil {
		return nil
	}
	var project models.Project
	if err := tx.First(&project, membership.ProjectID).Error; err != nil {
		return nil
	}

	if !event.SkipNotifications() {
		actorName := actorDisplayName(tx, event)
		planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
			{Reason: types.REASON_ADDED, MembershipIDs: []uint{*membership.OrganizationMembershipID}},
		})
		if err := notifyPlanned(tx, event, planned, target{
			Type:    types.SUBJECT_PROJECT,
			ID:      project.ID,
			Summary: fmt.Sprintf("%s added you to %s", actorName, project.Name),
		}, nil); err != nil {
			return err
		}
	}

	broadcastToMemberships(tx, []uint{*membership.OrganizationMembershipID}, "project-memberships-stale", map[string]any{
		"project_id": project.ID,
	})
	return nil
}

func processProjectMembershipDestroyed(tx *gorm.DB, event *models.Event) error {
	var membership models.ProjectMembership
	if err := tx.Unscoped().First(&membership, event.SubjectID).Error; err != nil {
		return nil
	}
	if membership.OrganizationMembershipID == nil {
		return nil
	}
	models.DiscardMemberNotificationsForTarget(
		tx, *membership.OrganizationMembershipID, types.SUBJECT_PROJECT, membership.ProjectID, types.SCOPE_NONE,
	)
	if err := models.DestroySubscription(
		tx, *membership.OrganizationMembershipID, types.SUBJECT_PROJECT, membership.ProjectID,
	); err != nil {
		return err
	}
	broadcastToMemberships(tx, []uint{*membership.OrganizationMembershipID}, "project-memberships-stale", map[string]any{
		"project_id": membership.ProjectID,
	})
	return nil
}

func processProjectPinCreated(tx *gorm.DB, event *models.Event) error {
	var pin models.ProjectPin
	if err := tx.First(&pin, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if pin.DiscardedAt != nil {
		return nil
	}
	return syncPinTimeline(tx, event, &pin, types.TIMELINE_SUBJECT_PINNED)
}

// Pin updates carry discard flips: a discarded pin reads as an unpin and an
// undiscarded one as a fresh pin. Quick flips cancel out through rollup.
func processProjectPinUpdated(tx *gorm.DB, event *models.Event) error {
	change, ok := event.PreviousChange("discarded_at")
	if !ok {
		return nil
	}
	var pin models.ProjectPin
	if err := tx.Unscoped().First(&pin, event.SubjectID).Error; err != nil {
		return nil
	}
	switch {
	case change[0] == nil && change[1] != nil:
		return syncPinTimeline(tx, event, &pin, types.TIMELINE_SUBJECT_UNPINNED)
	case change[0] != nil && change[1] == nil:
		return syncPinTimeline(tx, event, &pin, types.TIMELINE_SUBJECT_PINNED)
	}
	return nil
}

func processProjectPinDestroyed(tx *gorm.DB, event *models.Event) error {
	var pin models.ProjectPin
	if err := tx.Unscoped().First(&pin, event.SubjectID).Error; err != nil {
		return nil
	}
	return syncPinTimeline(tx, event, &pin, types.TIMELINE_SUBJECT_UNPINNED)
}

func syncPinTimeline(tx *gorm.DB, event *models.Event, pin *models.ProjectPin, action types.TimelineAction) error {
	actorID := event.ActorMembershipID()
	if actorID == nil {
		actorID = pin.PinnedByID
	}
	return models.SyncTimelineEvent(tx, &models.TimelineEvent{
		ActorID:     actorID,
		SubjectType: pin.SubjectType,
		SubjectID:   pin.SubjectID,
		Action:      action,
		Metadata:    types.JSONB{"project_id": pin.ProjectID},
	})
}
