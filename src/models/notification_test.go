package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestShouldDeliverEmail(t *testing.T) {
	user := &User{EmailNotificationsEnabled: true}
	assert.True(t, ShouldDeliverEmail(user))

	user.EmailNotificationsEnabled = false
	assert.False(t, ShouldDeliverEmail(user))
}

func TestShouldDeliverEmailRespectsPause(t *testing.T) {
	until := time.Now().Add(time.Hour)
	user := &User{EmailNotificationsEnabled: true, NotificationsPausedUntil: &until}
	assert.False(t, ShouldDeliverEmail(user))
}

func TestShouldDeliverEmailExpiredPause(t *testing.T) {
	until := time.Now().Add(-time.Hour)
	user := &User{EmailNotificationsEnabled: true, NotificationsPausedUntil: &until}
	assert.True(t, ShouldDeliverEmail(user))
}

func TestShouldDeliverChat(t *testing.T) {
	membership := &OrganizationMembership{
		ChatUserID:               strPtr("U12345"),
		ChatNotificationsEnabled: true,
	}
	organization := &Organization{}
	assert.True(t, ShouldDeliverChat(membership, organization))
}

func TestShouldDeliverChatRequiresLinkedAccount(t *testing.T) {
	membership := &OrganizationMembership{ChatNotificationsEnabled: true}
	assert.False(t, ShouldDeliverChat(membership, &Organization{}))

	membership.ChatUserID = strPtr("")
	assert.False(t, ShouldDeliverChat(membership, &Organization{}))
}

func TestShouldDeliverChatRespectsPreference(t *testing.T) {
	membership := &OrganizationMembership{ChatUserID: strPtr("U12345")}
	assert.False(t, ShouldDeliverChat(membership, &Organization{}))
}

func TestShouldDeliverChatRespectsOrganizationPause(t *testing.T) {
	until := time.Now().Add(time.Hour)
	membership := &OrganizationMembership{
		ChatUserID:               strPtr("U12345"),
		ChatNotificationsEnabled: true,
	}
	organization := &Organization{NotificationsPausedUntil: &until}
	assert.False(t, ShouldDeliverChat(membership, organization))
}

func TestNotificationKeptAndRead(t *testing.T) {
	n := &Notification{}
	assert.True(t, n.Kept())
	assert.False(t, n.Read())

	now := time.Now()
	n.DiscardedAt = &now
	n.ReadAt = &now
	assert.False(t, n.Kept())
	assert.True(t, n.Read())
}
