package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// Permission grants a membership view or edit access to a subject.
type Permission struct {
	ID          uint                   `gorm:"primarykey" json:"id"`
	UserID      uint                   `json:"user_id,omitempty"`
	SubjectType types.SubjectType      `json:"subject_type,omitempty"`
	SubjectID   uint                   `json:"subject_id,omitempty"`
	Action      types.PermissionAction `json:"action,omitempty"`
	DiscardedAt *time.Time             `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

func (p *Permission) Kept() bool {
	return p.DiscardedAt == nil
}

// HasPermission reports whether the membership's user holds a live permission
// row on the subject.
func HasPermission(tx *gorm.DB, membershipID uint, subjectType types.SubjectType, subjectID uint) bool {
	var membership OrganizationMembership
	if err := tx.First(&membership, membershipID).Error; err != nil {
		log.Printf("Error loading membership [%d]: %s\n", membershipID, err.Error())
		return false
	}
	var count int64
	if err := tx.
		Model(&Permission{}).
		Where(&Permission{UserID: membership.UserID, SubjectType: subjectType, SubjectID: subjectID}).
		Where("discarded_at IS NULL").
		Count(&count).
		Error; err != nil {
		log.Printf("Error counting permissions for %s [%d]: %s\n", subjectType, subjectID, err.Error())
		return false
	}
	return count > 0
}
