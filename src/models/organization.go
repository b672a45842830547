package models

import (
	"fmt"
	"huddle/src/types"
	"time"
)

type Organization struct {
	ID                       uint       `gorm:"primarykey;uniqueIndex:slugid" json:"id"`
	Name                     string     `json:"name,omitempty"`
	Slug                     string     `gorm:"uniqueIndex:slugid" json:"slug"`
	ContactEmail             string     `json:"email,omitempty"`
	NotificationsPausedUntil *time.Time `json:"-"`

	Memberships []OrganizationMembership `gorm:"foreignKey:organization_id" json:"-"`

	types.Timestamps
}

// ChannelName is the org-wide Pusher channel used for stale-data hints.
func (o *Organization) ChannelName() string {
	return fmt.Sprintf("private-organization-%d", o.ID)
}

// NotificationsPaused reports an org-wide pause of chat-integration
// deliveries, e.g. during an import.
func (o *Organization) NotificationsPaused() bool {
	return o.NotificationsPausedUntil != nil && o.NotificationsPausedUntil.After(time.Now())
}
