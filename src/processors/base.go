package processors

import (
	"huddle/src/config"
	"huddle/src/lib"
	"huddle/src/models"
	"huddle/src/types"
	"log"

	"gorm.io/gorm"
)

// ReasonSet is one group of candidate recipients sharing a reason. Sets are
// evaluated in the order given, so callers list reasons by priority.
type ReasonSet struct {
	Reason        types.NotificationReason
	MembershipIDs []uint
}

// PlannedNotification is a recipient paired with the single reason that won.
type PlannedNotification struct {
	MembershipID uint
	Reason       types.NotificationReason
}

// PlanRecipients resolves each candidate to at most one notification. A
// member qualifying under several reasons keeps only the first, and the actor
// is never a recipient.
func PlanRecipients(actorID *uint, sets []ReasonSet) []PlannedNotification {
	planned := []PlannedNotification{}
	taken := map[uint]bool{}
	for _, set := range sets {
		for _, id := range set.MembershipIDs {
			if actorID != nil && id == *actorID {
				continue
			}
			if taken[id] {
				continue
			}
			taken[id] = true
			planned = append(planned, PlannedNotification{MembershipID: id, Reason: set.Reason})
		}
	}
	return planned
}

// target describes what a notification points at. When SubscribeType is set,
// mention recipients start following that subject.
type target struct {
	Type          types.SubjectType
	ID            uint
	Scope         types.TargetScope
	Summary       string
	BodyPreview   string
	SubscribeType types.SubjectType
	SubscribeID   uint
}

// notifyPlanned upserts a notification per planned recipient and fans the
// surviving rows out to the delivery channels. Discarded memberships and
// recipients who cannot see the target are dropped here, as the last gate
// before anything is stored. summaries overrides the target summary per
// reason; a nil map keeps the target's.
func notifyPlanned(tx *gorm.DB, event *models.Event, planned []PlannedNotification, t target, summaries map[types.NotificationReason]string) error {
	actorID := uint(0)
	if id := event.ActorMembershipID(); id != nil {
		actorID = *id
	}
	for _, plan := range planned {
		var membership models.OrganizationMembership
		if err := tx.Preload("User").Preload("Organization").First(&membership, plan.MembershipID).Error; err != nil {
			log.Printf("[processors] Error loading membership [%d]: %s\n", plan.MembershipID, err.Error())
			continue
		}
		if !membership.Kept() {
			continue
		}
		if !models.SubjectViewableBy(tx, t.Type, t.ID, membership.ID) {
			continue
		}
		if plan.Reason == types.REASON_MENTION && t.SubscribeType != "" {
			if err := models.FindOrCreateSubscription(tx, membership.ID, t.SubscribeType, t.SubscribeID); err != nil {
				return err
			}
		}
		summary := t.Summary
		if s, ok := summaries[plan.Reason]; ok {
			summary = s
		}
		notification, err := models.FindOrCreateNotification(tx, &models.Notification{
			OrganizationMembershipID: membership.ID,
			EventID:                  event.ID,
			ActorID:                  actorID,
			Reason:                   plan.Reason,
			TargetType:               t.Type,
			TargetID:                 t.ID,
			TargetScope:              t.Scope,
			Summary:                  summary,
			BodyPreview:              t.BodyPreview,
		})
		if err != nil {
			return err
		}
		deliver(tx, notification, &membership)
	}
	return nil
}

func deliver(tx *gorm.DB, notification *models.Notification, membership *models.OrganizationMembership) {
	notification.BroadcastStale(tx)
	if models.ShouldDeliverEmail(&membership.User) {
		notification.DeliverEmailLater()
	}
	if models.ShouldDeliverChat(membership, &membership.Organization) {
		notification.DeliverChatMessageLater()
	}
	notification.DeliverWebPushLater()
}

// enqueueWebhookEvent hands an event to the webhook worker, which resolves
// the subscribed applications and posts to each endpoint.
func enqueueWebhookEvent(organizationID uint, eventType string, payload map[string]any) {
	lib.KafkaProduceMessage("webhooks", config.TOPIC_WEBHOOK_EVENTS, map[string]any{
		"organization_id": organizationID,
		"event_type":      eventType,
		"payload":         payload,
	})
}

// enqueueAppMentions fans an app.mentioned webhook out to every mentioned
// application that holds a live subscription for it.
func enqueueAppMentions(tx *gorm.DB, organizationID uint, appIDs []uint, payload map[string]any) {
	for _, appID := range appIDs {
		if !models.AppHasActiveWebhookFor(tx, appID, types.WEBHOOK_APP_MENTIONED) {
			continue
		}
		body := map[string]any{"application_id": appID}
		for k, v := range payload {
			body[k] = v
		}
		enqueueWebhookEvent(organizationID, types.WEBHOOK_APP_MENTIONED, body)
	}
}

// broadcast pushes an event to one realtime channel. Realtime traffic is
// independent of notification rows and ignores pause windows.
func broadcast(channel string, event string, payload map[string]any) {
	lib.KafkaProduceMessage("pusher", config.TOPIC_PUSHER_EVENTS, map[string]any{
		"channel": channel,
		"event":   event,
		"payload": payload,
	})
}

// broadcastPostsStale tells the org channel its post lists need a refetch.
func broadcastPostsStale(tx *gorm.DB, organizationID uint) {
	var organization models.Organization
	if err := tx.First(&organization, organizationID).Error; err != nil {
		log.Printf("[processors] Error loading organization [%d]: %s\n", organizationID, err.Error())
		return
	}
	broadcast(organization.ChannelName(), "posts-stale", map[string]any{})
}

// broadcastToMemberships pushes the same event to each membership's user
// channel.
func broadcastToMemberships(tx *gorm.DB, membershipIDs []uint, event string, payload map[string]any) {
	for _, id := range membershipIDs {
		var membership models.OrganizationMembership
		if err := tx.Preload("User").First(&membership, id).Error; err != nil {
			log.Printf("[processors] Error loading membership [%d]: %s\n", id, err.Error())
			continue
		}
		broadcast(membership.User.ChannelName(), event, payload)
	}
}

func actorDisplayName(tx *gorm.DB, event *models.Event) string {
	switch event.ActorType {
	case types.ACTOR_MEMBER:
		if event.ActorID == nil {
			return ""
		}
		var membership models.OrganizationMembership
		if err := tx.Preload("User").First(&membership, *event.ActorID).Error; err != nil {
			log.Printf("[processors] Error loading actor membership [%d]: %s\n", *event.ActorID, err.Error())
			return ""
		}
		return membership.User.Name
	case types.ACTOR_APP:
		if event.ActorID == nil {
			return ""
		}
		var app models.OauthApplication
		if err := tx.First(&app, *event.ActorID).Error; err != nil {
			log.Printf("[processors] Error loading actor application [%d]: %s\n", *event.ActorID, err.Error())
			return ""
		}
		return app.Name
	default:
		return ""
	}
}
