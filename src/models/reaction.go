package models

import (
	"huddle/src/types"
	"time"
)

// Reaction sits on a post, comment or chat message.
type Reaction struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	MemberID    uint              `json:"member_id,omitempty"`
	SubjectType types.SubjectType `json:"subject_type,omitempty"`
	SubjectID   uint              `json:"subject_id,omitempty"`
	Content     string            `json:"content,omitempty"`
	DiscardedAt *time.Time        `gorm:"index" json:"-"`

	Member OrganizationMembership `gorm:"foreignKey:member_id" json:"-"`

	types.Timestamps
}
