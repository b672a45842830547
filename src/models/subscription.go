package models

import (
	"huddle/src/types"
	"log"

	"gorm.io/gorm"
)

// Subscription follows a post, note or project. A cascading project
// subscription auto-subscribes the member to posts created in the project.
type Subscription struct {
	ID                       uint              `gorm:"primarykey" json:"id"`
	OrganizationMembershipID uint              `json:"organization_membership_id,omitempty"`
	SubscribableType         types.SubjectType `json:"subscribable_type,omitempty"`
	SubscribableID           uint              `json:"subscribable_id,omitempty"`
	Cascade                  bool              `gorm:"default:false" json:"cascade"`

	OrganizationMembership OrganizationMembership `gorm:"foreignKey:organization_membership_id" json:"-"`

	types.Timestamps
}

// FindOrCreateSubscription is the idempotent subscribe used by processors;
// reprocessing an event must not duplicate subscription rows.
func FindOrCreateSubscription(tx *gorm.DB, membershipID uint, subscribableType types.SubjectType, subscribableID uint) error {
	var existing Subscription
	err := tx.
		Where(&Subscription{
			OrganizationMembershipID: membershipID,
			SubscribableType:         subscribableType,
			SubscribableID:           subscribableID,
		}).
		First(&existing).
		Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return tx.Create(&Subscription{
		OrganizationMembershipID: membershipID,
		SubscribableType:         subscribableType,
		SubscribableID:           subscribableID,
	}).Error
}

// DestroySubscription removes the membership's subscription; missing rows are
// a no-op.
func DestroySubscription(tx *gorm.DB, membershipID uint, subscribableType types.SubjectType, subscribableID uint) error {
	return tx.
		Where(&Subscription{
			OrganizationMembershipID: membershipID,
			SubscribableType:         subscribableType,
			SubscribableID:           subscribableID,
		}).
		Delete(&Subscription{}).
		Error
}

func subscriberIDs(tx *gorm.DB, subscribableType types.SubjectType, subscribableID uint) []uint {
	var ids []uint
	if err := tx.
		Model(&Subscription{}).
		Where(&Subscription{SubscribableType: subscribableType, SubscribableID: subscribableID}).
		Pluck("organization_membership_id", &ids).
		Error; err != nil {
		log.Printf("Error loading subscribers for %s [%d]: %s\n", subscribableType, subscribableID, err.Error())
	}
	return ids
}

// ProjectSubscriptions returns the live subscriptions on a project.
func ProjectSubscriptions(tx *gorm.DB, projectID uint) []Subscription {
	var subs []Subscription
	if err := tx.
		Where(&Subscription{SubscribableType: types.SUBJECT_PROJECT, SubscribableID: projectID}).
		Find(&subs).
		Error; err != nil {
		log.Printf("Error loading project subscriptions [%d]: %s\n", projectID, err.Error())
	}
	return subs
}
