package models

import (
	"fmt"
	"huddle/src/types"
	"time"
)

type User struct {
	ID                        uint       `gorm:"primarykey" json:"id"`
	Name                      string     `json:"name,omitempty"`
	Email                     string     `json:"email,omitempty"`
	UID                       string     `json:"uid,omitempty"`
	EmailNotificationsEnabled bool       `gorm:"default:true" json:"email_notifications_enabled"`
	NotificationsPausedUntil  *time.Time `json:"notifications_paused_until,omitempty"`

	Memberships []OrganizationMembership `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

// NotificationsPaused reports whether the user currently has an active
// notification pause. All non-realtime channels respect it.
func (u *User) NotificationsPaused() bool {
	return u.NotificationsPausedUntil != nil && u.NotificationsPausedUntil.After(time.Now())
}

// ChannelName is the private Pusher channel scoped to this user.
func (u *User) ChannelName() string {
	return fmt.Sprintf("private-user-%d", u.ID)
}

// OrganizationMembership is the recipient identity for notifications: every
// notification belongs to a membership, not directly to a user.
type OrganizationMembership struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	OrganizationID uint       `json:"organization_id,omitempty"`
	UserID         uint       `json:"user_id,omitempty"`
	Role           string     `gorm:"default:'member'" json:"role,omitempty"`
	DiscardedAt    *time.Time `gorm:"index" json:"-"`

	// Chat-integration link. ChatUserID is the member's id on the external
	// chat system; nil means the member never linked the integration.
	ChatUserID               *string `json:"-"`
	ChatNotificationsEnabled bool    `gorm:"default:false" json:"-"`

	User         User         `gorm:"foreignKey:user_id" json:"-"`
	Organization Organization `gorm:"foreignKey:organization_id" json:"-"`

	types.Timestamps
}

func (m *OrganizationMembership) Kept() bool {
	return m.DiscardedAt == nil
}

// WebPushSubscription is one registered push device for a user. Delivery
// enqueues one job per subscription.
type WebPushSubscription struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `json:"user_id,omitempty"`
	Token       string     `json:"-"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`

	types.Timestamps
}
