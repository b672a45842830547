package models

import (
	"huddle/src/types"
	"time"
)

// Call records a finished call whose title and summary are generated
// asynchronously; the creator gets a processing_complete notification once
// both land.
type Call struct {
	ID                     uint                    `gorm:"primarykey" json:"id"`
	OrganizationID         uint                    `json:"organization_id,omitempty"`
	MemberID               uint                    `json:"member_id,omitempty"`
	ProjectID              *uint                   `json:"project_id,omitempty"`
	Title                  string                  `json:"title,omitempty"`
	GeneratedTitleStatus   types.CallSummaryStatus `gorm:"default:'pending'" json:"-"`
	GeneratedSummaryStatus types.CallSummaryStatus `gorm:"default:'pending'" json:"-"`
	StartedAt              *time.Time              `json:"started_at,omitempty"`
	StoppedAt              *time.Time              `json:"stopped_at,omitempty"`

	Member OrganizationMembership `gorm:"foreignKey:member_id" json:"-"`

	types.Timestamps
}

func (c *Call) ProcessingComplete() bool {
	return c.GeneratedTitleStatus == types.CALL_SUMMARY_COMPLETED &&
		c.GeneratedSummaryStatus == types.CALL_SUMMARY_COMPLETED
}
