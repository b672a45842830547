package models

import (
	"huddle/src/config"
	"huddle/src/lib"
	"huddle/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification targets one recipient for one event. At most one undiscarded
// row may exist per (recipient, event, reason); discarded rows never block a
// new one.
type Notification struct {
	ID                       uint                     `gorm:"primarykey" json:"id"`
	PublicID                 string                   `gorm:"index" json:"public_id,omitempty"`
	OrganizationMembershipID uint                     `json:"organization_membership_id,omitempty"`
	EventID                  uint                     `json:"event_id,omitempty"`
	ActorID                  uint                     `json:"actor_id,omitempty"`
	Reason                   types.NotificationReason `json:"reason,omitempty"`
	TargetType               types.SubjectType        `json:"target_type,omitempty"`
	TargetID                 uint                     `json:"target_id,omitempty"`
	TargetScope              types.TargetScope        `json:"target_scope,omitempty"`
	Summary                  string                   `json:"summary,omitempty"`
	BodyPreview              string                   `json:"body_preview,omitempty"`
	ReadAt                   *time.Time               `json:"read_at,omitempty"`
	EmailedAt                *time.Time               `json:"-"`
	ArchivedAt               *time.Time               `json:"archived_at,omitempty"`
	DiscardedAt              *time.Time               `gorm:"index" json:"-"`
	ChatMessageID            string                   `json:"-"`

	OrganizationMembership OrganizationMembership `gorm:"foreignKey:organization_membership_id" json:"-"`
	Event                  Event                  `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.PublicID == "" {
		n.PublicID = uuid.NewString()
	}
	return nil
}

func (n *Notification) Kept() bool {
	return n.DiscardedAt == nil
}

func (n *Notification) Read() bool {
	return n.ReadAt != nil
}

// FindOrCreateNotification upserts against the live-uniqueness key. Replays
// of the same event find the existing live row and update its display fields
// instead of inserting a duplicate.
func FindOrCreateNotification(tx *gorm.DB, notification *Notification) (*Notification, error) {
	var existing Notification
	err := tx.
		Where(&Notification{
			OrganizationMembershipID: notification.OrganizationMembershipID,
			EventID:                  notification.EventID,
			Reason:                   notification.Reason,
		}).
		Where("discarded_at IS NULL").
		First(&existing).
		Error
	if err == nil {
		existing.Summary = notification.Summary
		existing.BodyPreview = notification.BodyPreview
		existing.TargetType = notification.TargetType
		existing.TargetID = notification.TargetID
		existing.TargetScope = notification.TargetScope
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := tx.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// Discard soft-deletes the notification and, when a chat message was already
// delivered for it, enqueues its removal.
func (n *Notification) Discard(tx *gorm.DB) error {
	if !n.Kept() {
		return nil
	}
	now := time.Now().UTC()
	n.DiscardedAt = &now
	if err := tx.
		Model(&Notification{}).
		Where(&Notification{ID: n.ID}).
		UpdateColumn("discarded_at", now).
		Error; err != nil {
		return err
	}
	if n.ChatMessageID != "" {
		n.DeleteChatMessageLater()
	}
	return nil
}

// DiscardNotificationsForTarget discards every live notification pointing at
// the target, optionally narrowed to a scope.
func DiscardNotificationsForTarget(tx *gorm.DB, targetType types.SubjectType, targetID uint, scope types.TargetScope) {
	var notifications []Notification
	query := tx.
		Where(&Notification{TargetType: targetType, TargetID: targetID}).
		Where("discarded_at IS NULL")
	if scope != types.SCOPE_NONE {
		query = query.Where(&Notification{TargetScope: scope})
	}
	if err := query.Find(&notifications).Error; err != nil {
		log.Printf("Error loading notifications for %s [%d]: %s\n", targetType, targetID, err.Error())
		return
	}
	for i := range notifications {
		if err := notifications[i].Discard(tx); err != nil {
			log.Printf("Error discarding notification [%d]: %s\n", notifications[i].ID, err.Error())
		}
	}
}

// DiscardNotificationsForReasons discards live notifications on the target
// carrying any of the given reasons.
func DiscardNotificationsForReasons(tx *gorm.DB, targetType types.SubjectType, targetID uint, reasons []types.NotificationReason) {
	var notifications []Notification
	if err := tx.
		Where(&Notification{TargetType: targetType, TargetID: targetID}).
		Where("reason IN ?", reasons).
		Where("discarded_at IS NULL").
		Find(&notifications).
		Error; err != nil {
		log.Printf("Error loading notifications for %s [%d]: %s\n", targetType, targetID, err.Error())
		return
	}
	for i := range notifications {
		if err := notifications[i].Discard(tx); err != nil {
			log.Printf("Error discarding notification [%d]: %s\n", notifications[i].ID, err.Error())
		}
	}
}

// DiscardMemberNotificationsForTarget discards one recipient's live
// notifications on a target, optionally narrowed to a scope.
func DiscardMemberNotificationsForTarget(tx *gorm.DB, membershipID uint, targetType types.SubjectType, targetID uint, scope types.TargetScope) {
	var notifications []Notification
	query := tx.
		Where(&Notification{
			OrganizationMembershipID: membershipID,
			TargetType:               targetType,
			TargetID:                 targetID,
		}).
		Where("discarded_at IS NULL")
	if scope != types.SCOPE_NONE {
		query = query.Where(&Notification{TargetScope: scope})
	}
	if err := query.Find(&notifications).Error; err != nil {
		log.Printf("Error loading notifications for %s [%d]: %s\n", targetType, targetID, err.Error())
		return
	}
	for i := range notifications {
		if err := notifications[i].Discard(tx); err != nil {
			log.Printf("Error discarding notification [%d]: %s\n", notifications[i].ID, err.Error())
		}
	}
}

// DiscardActorNotificationsForTarget discards live notifications one actor
// produced on a target within a scope, used when the actor withdraws the
// action that caused them.
func DiscardActorNotificationsForTarget(tx *gorm.DB, actorID uint, targetType types.SubjectType, targetID uint, scope types.TargetScope) {
	var notifications []Notification
	if err := tx.
		Where(&Notification{
			ActorID:     actorID,
			TargetType:  targetType,
			TargetID:    targetID,
			TargetScope: scope,
		}).
		Where("discarded_at IS NULL").
		Find(&notifications).
		Error; err != nil {
		log.Printf("Error loading notifications for %s [%d]: %s\n", targetType, targetID, err.Error())
		return
	}
	for i := range notifications {
		if err := notifications[i].Discard(tx); err != nil {
			log.Printf("Error discarding notification [%d]: %s\n", notifications[i].ID, err.Error())
		}
	}
}

// ShouldDeliverEmail gates the email channel on the recipient's preference
// and pause window.
func ShouldDeliverEmail(user *User) bool {
	return user.EmailNotificationsEnabled && !user.NotificationsPaused()
}

// ShouldDeliverChat gates the chat channel on a linked chat account, the
// membership preference and the organization pause window.
func ShouldDeliverChat(membership *OrganizationMembership, organization *Organization) bool {
	return membership.ChatUserID != nil && *membership.ChatUserID != "" &&
		membership.ChatNotificationsEnabled &&
		!organization.NotificationsPaused()
}

func (n *Notification) DeliverEmailLater() {
	lib.KafkaProduceMessage("notifications", config.TOPIC_NOTIFICATION_EMAIL, map[string]any{
		"notification_id": n.ID,
	})
}

func (n *Notification) DeliverChatMessageLater() {
	lib.KafkaProduceMessage("notifications", config.TOPIC_CHAT_DELIVER, map[string]any{
		"notification_id": n.ID,
	})
}

func (n *Notification) DeleteChatMessageLater() {
	lib.KafkaProduceMessage("notifications", config.TOPIC_CHAT_DELETE, map[string]any{
		"notification_id": n.ID,
		"chat_message_id": n.ChatMessageID,
	})
}

func (n *Notification) DeliverWebPushLater() {
	lib.KafkaProduceMessage("notifications", config.TOPIC_PUSH_DELIVER, map[string]any{
		"notification_id": n.ID,
	})
}

// BroadcastStale pushes a stale marker to the recipient's private channel so
// open clients refetch their notification list.
func (n *Notification) BroadcastStale(tx *gorm.DB) {
	var membership OrganizationMembership
	if err := tx.Preload("User").First(&membership, n.OrganizationMembershipID).Error; err != nil {
		log.Printf("Error loading membership [%d]: %s\n", n.OrganizationMembershipID, err.Error())
		return
	}
	lib.KafkaProduceMessage("notifications", config.TOPIC_PUSHER_EVENTS, map[string]any{
		"channel": membership.User.ChannelName(),
		"event":   "notifications-stale",
		"payload": map[string]any{},
	})
}
