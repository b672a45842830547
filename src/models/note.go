package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

type Note struct {
	ID                uint                   `gorm:"primarykey" json:"id"`
	OrganizationID    uint                   `json:"organization_id,omitempty"`
	MemberID          uint                   `json:"member_id,omitempty"`
	ProjectID         *uint                  `json:"project_id,omitempty"`
	Title             string                 `json:"title,omitempty"`
	DescriptionHTML   string                 `json:"description_html,omitempty"`
	ProjectPermission types.PermissionAction `gorm:"default:'none'" json:"project_permission,omitempty"`
	LastActivityAt    *time.Time             `json:"last_activity_at,omitempty"`
	ContentUpdatedAt  *time.Time             `json:"content_updated_at,omitempty"`
	DiscardedAt       *time.Time             `gorm:"index" json:"-"`

	Member  OrganizationMembership `gorm:"foreignKey:member_id" json:"-"`
	Project *Project               `gorm:"foreignKey:project_id" json:"-"`

	types.Timestamps
}

// ViewableBy reports whether the membership can see the note: the author
// always can, anyone with a live permission row can, and project sharing
// extends visibility to whoever can see the project.
func (n *Note) ViewableBy(tx *gorm.DB, membershipID uint) bool {
	if membershipID == n.MemberID {
		return true
	}
	if HasPermission(tx, membershipID, types.SUBJECT_NOTE, n.ID) {
		return true
	}
	if n.ProjectID == nil || n.ProjectPermission == "none" {
		return false
	}
	var project Project
	if err := tx.First(&project, *n.ProjectID).Error; err != nil {
		log.Printf("Error loading project [%d]: %s\n", *n.ProjectID, err.Error())
		return false
	}
	if !project.Private {
		return true
	}
	return project.HasMember(tx, membershipID)
}

func (n *Note) UpdateLastActivityAt(tx *gorm.DB) {
	now := time.Now().UTC()
	if err := tx.
		Model(&Note{}).
		Where(&Note{ID: n.ID}).
		UpdateColumns(map[string]any{
			"last_activity_at":   now,
			"content_updated_at": now,
		}).
		Error; err != nil {
		log.Printf("Error updating last_activity_at for note [%d]: %s\n", n.ID, err.Error())
	}
}

func (n *Note) SubscriberMembershipIDs(tx *gorm.DB) []uint {
	return subscriberIDs(tx, types.SUBJECT_NOTE, n.ID)
}
