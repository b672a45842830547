package workers

import (
	"context"
	"huddle/src/db"
	"huddle/src/lib"
	"huddle/src/models"
	"log"
	"sync"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/tidwall/gjson"
)

// HandlePushDeliver sends a notification to every registered push device of
// the recipient, one send per subscription, in parallel.
func HandlePushDeliver(message string) {
	notificationID := gjson.Get(message, "notification_id").Uint()
	if notificationID == 0 {
		log.Printf("[push] Skipping message without notification_id: %s\n", message)
		return
	}
	conn := db.GetDb()
	var notification models.Notification
	if err := conn.First(&notification, notificationID).Error; err != nil {
		log.Printf("[push] Error loading notification [%d]: %s\n", notificationID, err.Error())
		return
	}
	if !notification.Kept() || notification.Read() {
		return
	}
	var membership models.OrganizationMembership
	if err := conn.Preload("User").First(&membership, notification.OrganizationMembershipID).Error; err != nil {
		log.Printf("[push] Error loading membership [%d]: %s\n", notification.OrganizationMembershipID, err.Error())
		return
	}
	if membership.User.NotificationsPaused() {
		return
	}

	var subscriptions []models.WebPushSubscription
	err := conn.
		Where(&models.WebPushSubscription{UserID: membership.UserID}).
		Where("discarded_at IS NULL").
		Find(&subscriptions).
		Error
	if err != nil {
		log.Printf("[push] Error loading subscriptions for user [%d]: %s\n", membership.UserID, err.Error())
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	client, err := lib.GetFirebaseMessaging()
	if err != nil {
		return
	}
	var wg sync.WaitGroup
	for _, subscription := range subscriptions {
		wg.Add(1)
		go func(sub models.WebPushSubscription) {
			defer wg.Done()
			_, err := client.Send(context.Background(), &messaging.Message{
				Token: sub.Token,
				Notification: &messaging.Notification{
					Title: notification.Summary,
					Body:  notification.BodyPreview,
				},
			})
			if err == nil {
				return
			}
			log.Printf("[push] Error sending to subscription [%d]: %s\n", sub.ID, err.Error())
			if messaging.IsUnregistered(err) {
				now := time.Now().UTC()
				if err := conn.
					Model(&models.WebPushSubscription{}).
					Where(&models.WebPushSubscription{ID: sub.ID}).
					UpdateColumn("discarded_at", now).
					Error; err != nil {
					log.Printf("[push] Error discarding subscription [%d]: %s\n", sub.ID, err.Error())
				}
			}
		}(subscription)
	}
	wg.Wait()
}
