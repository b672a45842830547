package workers

import (
	"encoding/json"
	"huddle/src/db"
	"huddle/src/lib"
	"huddle/src/models"
	"log"
	"os"

	"github.com/tidwall/gjson"
)

// HandleChatDeliver posts a notification to the recipient's linked chat
// account through the external delivery queue and keeps the returned message
// id so a later discard can take the chat message down with it.
func HandleChatDeliver(message string) {
	notificationID := gjson.Get(message, "notification_id").Uint()
	if notificationID == 0 {
		log.Printf("[chat] Skipping message without notification_id: %s\n", message)
		return
	}
	conn := db.GetDb()
	var notification models.Notification
	if err := conn.First(&notification, notificationID).Error; err != nil {
		log.Printf("[chat] Error loading notification [%d]: %s\n", notificationID, err.Error())
		return
	}
	if !notification.Kept() || notification.ChatMessageID != "" {
		return
	}
	var membership models.OrganizationMembership
	if err := conn.Preload("User").Preload("Organization").First(&membership, notification.OrganizationMembershipID).Error; err != nil {
		log.Printf("[chat] Error loading membership [%d]: %s\n", notification.OrganizationMembershipID, err.Error())
		return
	}
	// Gates re-check at send time; preferences may have changed since enqueue.
	if !models.ShouldDeliverChat(&membership, &membership.Organization) {
		return
	}

	body, err := json.Marshal(map[string]any{
		"action":       "post",
		"chat_user_id": *membership.ChatUserID,
		"text":         notification.Summary,
	})
	if err != nil {
		log.Printf("[chat] Error serializing message: %s\n", err.Error())
		return
	}
	messageID, err := lib.SQSProduceMessage(os.Getenv("CHAT_QUEUE"), string(body))
	if err != nil {
		log.Printf("[chat] Error queueing message for notification [%d]: %s\n", notification.ID, err.Error())
		return
	}
	if err := conn.
		Model(&models.Notification{}).
		Where(&models.Notification{ID: notification.ID}).
		UpdateColumn("chat_message_id", messageID).
		Error; err != nil {
		log.Printf("[chat] Error saving chat message id for notification [%d]: %s\n", notification.ID, err.Error())
	}
}

// HandleChatDelete asks the external chat workers to remove a previously
// delivered message.
func HandleChatDelete(message string) {
	chatMessageID := gjson.Get(message, "chat_message_id").String()
	if chatMessageID == "" {
		return
	}
	body, err := json.Marshal(map[string]any{
		"action":          "delete",
		"chat_message_id": chatMessageID,
	})
	if err != nil {
		log.Printf("[chat] Error serializing delete: %s\n", err.Error())
		return
	}
	if _, err := lib.SQSProduceMessage(os.Getenv("CHAT_QUEUE"), string(body)); err != nil {
		log.Printf("[chat] Error queueing delete for message [%s]: %s\n", chatMessageID, err.Error())
	}
}
