package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID                uint                 `gorm:"primarykey" json:"id"`
	OrganizationID    uint                 `json:"organization_id,omitempty"`
	MemberID          uint                 `json:"member_id,omitempty"`
	ProjectID         *uint                `json:"project_id,omitempty"`
	ParentID          *uint                `json:"parent_id,omitempty"`
	Title             string               `json:"title,omitempty"`
	DescriptionHTML   string               `json:"description_html,omitempty"`
	UnfurledLink      *string              `json:"unfurled_link,omitempty"`
	Visibility        types.PostVisibility `gorm:"default:'default'" json:"visibility,omitempty"`
	Draft             bool                 `gorm:"default:false" json:"draft"`
	ResolvedAt        *time.Time           `json:"resolved_at,omitempty"`
	ResolvedByID      *uint                `json:"resolved_by,omitempty"`
	ResolvedCommentID *uint                `json:"resolved_comment,omitempty"`
	LastActivityAt    *time.Time           `json:"last_activity_at,omitempty"`
	ContentUpdatedAt  *time.Time           `json:"content_updated_at,omitempty"`
	DiscardedAt       *time.Time           `gorm:"index" json:"-"`

	Member       OrganizationMembership `gorm:"foreignKey:member_id" json:"-"`
	Organization Organization           `gorm:"foreignKey:organization_id" json:"-"`
	Project      *Project               `gorm:"foreignKey:project_id" json:"-"`
	Parent       *Post                  `gorm:"foreignKey:parent_id" json:"-"`

	types.Timestamps
}

func (p *Post) Resolved() bool {
	return p.ResolvedAt != nil
}

// ViewableBy reports whether the membership can see the post. Posts outside a
// project, or in a non-private project, are visible org-wide; private
// projects require a project membership.
func (p *Post) ViewableBy(tx *gorm.DB, membershipID uint) bool {
	if membershipID == p.MemberID {
		return true
	}
	if p.ProjectID == nil {
		return true
	}
	var project Project
	if err := tx.First(&project, *p.ProjectID).Error; err != nil {
		log.Printf("Error loading project [%d]: %s\n", *p.ProjectID, err.Error())
		return false
	}
	if !project.Private {
		return true
	}
	return project.HasMember(tx, membershipID)
}

// UpdateLastActivityAt bumps the post's activity column without rewriting
// updated_at.
func (p *Post) UpdateLastActivityAt(tx *gorm.DB) {
	now := time.Now().UTC()
	if err := tx.
		Model(&Post{}).
		Where(&Post{ID: p.ID}).
		UpdateColumn("last_activity_at", now).
		Error; err != nil {
		log.Printf("Error updating last_activity_at for post [%d]: %s\n", p.ID, err.Error())
	}
}

// SubscriberMembershipIDs returns memberships subscribed to the post.
func (p *Post) SubscriberMembershipIDs(tx *gorm.DB) []uint {
	return subscriberIDs(tx, types.SUBJECT_POST, p.ID)
}
