package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// FollowUp is a reminder a member sets on a subject; it hard-deletes when the
// subject goes away.
type FollowUp struct {
	ID                       uint              `gorm:"primarykey" json:"id"`
	OrganizationMembershipID uint              `json:"organization_membership_id,omitempty"`
	SubjectType              types.SubjectType `json:"subject_type,omitempty"`
	SubjectID                uint              `json:"subject_id,omitempty"`
	ShowAt                   *time.Time        `json:"show_at,omitempty"`

	OrganizationMembership OrganizationMembership `gorm:"foreignKey:organization_membership_id" json:"-"`

	types.Timestamps
}

type Favorite struct {
	ID                       uint              `gorm:"primarykey" json:"id"`
	OrganizationMembershipID uint              `json:"organization_membership_id,omitempty"`
	FavoritableType          types.SubjectType `json:"favoritable_type,omitempty"`
	FavoritableID            uint              `json:"favoritable_id,omitempty"`

	types.Timestamps
}

// DestroyFollowUps hard-deletes every follow up on the subject.
func DestroyFollowUps(tx *gorm.DB, subjectType types.SubjectType, subjectID uint) {
	if err := tx.
		Where(&FollowUp{SubjectType: subjectType, SubjectID: subjectID}).
		Delete(&FollowUp{}).
		Error; err != nil {
		log.Printf("Error destroying follow ups for %s [%d]: %s\n", subjectType, subjectID, err.Error())
	}
}

// DestroyMemberFollowUps deletes one member's follow ups on the subject,
// used when that member loses access.
func DestroyMemberFollowUps(tx *gorm.DB, membershipID uint, subjectType types.SubjectType, subjectID uint) {
	if err := tx.
		Where(&FollowUp{OrganizationMembershipID: membershipID, SubjectType: subjectType, SubjectID: subjectID}).
		Delete(&FollowUp{}).
		Error; err != nil {
		log.Printf("Error destroying follow ups for member [%d] on %s [%d]: %s\n", membershipID, subjectType, subjectID, err.Error())
	}
}

// DestroyFavorites hard-deletes every favorite on the subject.
func DestroyFavorites(tx *gorm.DB, favoritableType types.SubjectType, favoritableID uint) {
	if err := tx.
		Where(&Favorite{FavoritableType: favoritableType, FavoritableID: favoritableID}).
		Delete(&Favorite{}).
		Error; err != nil {
		log.Printf("Error destroying favorites for %s [%d]: %s\n", favoritableType, favoritableID, err.Error())
	}
}

// DestroyMemberFavorites deletes one member's favorite of the subject, used
// when that member loses access.
func DestroyMemberFavorites(tx *gorm.DB, membershipID uint, favoritableType types.SubjectType, favoritableID uint) {
	if err := tx.
		Where(&Favorite{OrganizationMembershipID: membershipID, FavoritableType: favoritableType, FavoritableID: favoritableID}).
		Delete(&Favorite{}).
		Error; err != nil {
		log.Printf("Error destroying favorites for member [%d] on %s [%d]: %s\n", membershipID, favoritableType, favoritableID, err.Error())
	}
}
