package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// Comment hangs off a post or a note. A comment with a parent is a reply.
type Comment struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	SubjectType  types.SubjectType `json:"subject_type,omitempty"`
	SubjectID    uint              `json:"subject_id,omitempty"`
	MemberID     uint              `json:"member_id,omitempty"`
	ParentID     *uint             `json:"parent_id,omitempty"`
	BodyHTML     string            `json:"body_html,omitempty"`
	ResolvedAt   *time.Time        `json:"resolved_at,omitempty"`
	ResolvedByID *uint             `json:"resolved_by,omitempty"`
	DiscardedAt  *time.Time        `gorm:"index" json:"-"`

	Member OrganizationMembership `gorm:"foreignKey:member_id" json:"-"`
	Parent *Comment               `gorm:"foreignKey:parent_id" json:"-"`

	types.Timestamps
}

func (c *Comment) Reply() bool {
	return c.ParentID != nil
}

func (c *Comment) Resolved() bool {
	return c.ResolvedAt != nil
}

// ViewableBy delegates to the comment's subject: whoever can see the post or
// note can see its comments.
func (c *Comment) ViewableBy(tx *gorm.DB, membershipID uint) bool {
	return SubjectViewableBy(tx, c.SubjectType, c.SubjectID, membershipID)
}

// SubscriberMembershipIDs returns the subscribers of the comment's subject;
// comments have no subscription rows of their own.
func (c *Comment) SubscriberMembershipIDs(tx *gorm.DB) []uint {
	return subscriberIDs(tx, c.SubjectType, c.SubjectID)
}

// ReplyIDs returns the ids of the comment's direct replies.
func (c *Comment) ReplyIDs(tx *gorm.DB) []uint {
	var ids []uint
	if err := tx.
		Model(&Comment{}).
		Where("parent_id = ?", c.ID).
		Pluck("id", &ids).
		Error; err != nil {
		log.Printf("Error loading replies for comment [%d]: %s\n", c.ID, err.Error())
	}
	return ids
}
