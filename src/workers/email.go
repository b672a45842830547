package workers

import (
	"context"
	"fmt"
	"huddle/src/config"
	"huddle/src/db"
	"huddle/src/lib"
	awslib "huddle/src/lib/aws"
	"huddle/src/lib/mailer"
	"huddle/src/models"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tidwall/gjson"
)

// HandleEmailDeliver batches email notifications into digests. The first
// notification for a recipient arms a one-shot job via a redis lock; everything
// else arriving inside the window rides the same digest.
func HandleEmailDeliver(message string) {
	notificationID := gjson.Get(message, "notification_id").Uint()
	if notificationID == 0 {
		log.Printf("[email] Skipping message without notification_id: %s\n", message)
		return
	}
	conn := db.GetDb()
	var notification models.Notification
	if err := conn.First(&notification, notificationID).Error; err != nil {
		log.Printf("[email] Error loading notification [%d]: %s\n", notificationID, err.Error())
		return
	}
	if !notification.Kept() || notification.Read() || notification.EmailedAt != nil {
		return
	}

	membershipID := notification.OrganizationMembershipID
	rdb := lib.GetRedisClient()
	lockKey := fmt.Sprintf("email-digest:%d", membershipID)
	acquired, err := rdb.SetNX(context.Background(), lockKey, "1", config.EMAIL_DIGEST_DELAY).Result()
	if err != nil {
		log.Printf("[email] Error acquiring digest lock: %s\n", err.Error())
		return
	}
	if !acquired {
		return
	}

	flushAt := time.Now().Add(config.EMAIL_DIGEST_DELAY)
	_, err = lib.CreateOneTimeCronJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(flushAt)),
		gocron.NewTask(func() {
			defer rdb.Del(context.Background(), lockKey)
			FlushEmailDigest(membershipID)
		}),
	)
	if err != nil {
		rdb.Del(context.Background(), lockKey)
		log.Printf("[email] Error scheduling digest for membership [%d]: %s\n", membershipID, err.Error())
	}
}

// FlushEmailDigest sends one email covering every unread notification the
// recipient has not been emailed about, then stamps them so a rearmed digest
// cannot resend them.
func FlushEmailDigest(membershipID uint) {
	conn := db.GetDb()
	var membership models.OrganizationMembership
	if err := conn.Preload("User").Preload("Organization").First(&membership, membershipID).Error; err != nil {
		log.Printf("[email] Error loading membership [%d]: %s\n", membershipID, err.Error())
		return
	}
	if !membership.Kept() || !models.ShouldDeliverEmail(&membership.User) {
		return
	}

	var notifications []models.Notification
	err := conn.
		Where(&models.Notification{OrganizationMembershipID: membershipID}).
		Where("discarded_at IS NULL AND read_at IS NULL AND emailed_at IS NULL").
		Order("created_at ASC").
		Find(&notifications).
		Error
	if err != nil {
		log.Printf("[email] Error loading notifications for membership [%d]: %s\n", membershipID, err.Error())
		return
	}
	if len(notifications) == 0 {
		return
	}

	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		lines = append(lines, "<p>"+n.Summary+"</p>")
	}
	subject := fmt.Sprintf("%d new notifications in %s", len(notifications), membership.Organization.Name)
	if len(notifications) == 1 {
		subject = notifications[0].Summary
	}
	body := strings.Join(lines, "\n")
	if os.Getenv("EMAIL_USE_SES") == "true" {
		if err := awslib.SESSendEmail(os.Getenv("EMAIL_FROM"), membership.User.Email, subject, body); err != nil {
			log.Printf("[email] Error sending digest for membership [%d]: %s\n", membershipID, err.Error())
			return
		}
	} else {
		input := &lib.SendMailInput{
			From:     os.Getenv("EMAIL_FROM"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
			To:       []string{membership.User.Email},
			Subject:  subject,
			Body:     body,
			Html:     true,
		}
		if err := mailer.NewMailerMessage(input); err != nil {
			log.Printf("[email] Error queueing digest for membership [%d]: %s\n", membershipID, err.Error())
			return
		}
	}

	now := time.Now().UTC()
	ids := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}
	if err := conn.
		Model(&models.Notification{}).
		Where("id IN ?", ids).
		UpdateColumn("emailed_at", now).
		Error; err != nil {
		log.Printf("[email] Error stamping emailed notifications: %s\n", err.Error())
	}
}
