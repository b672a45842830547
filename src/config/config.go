package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// ROLLUP_THRESHOLD is the window inside which timeline entries created by the
// same actor for the same action family merge or cancel instead of appending.
const ROLLUP_THRESHOLD = 60 * time.Second

// EMAIL_DIGEST_DELAY is how long the email scheduler waits after the first
// unread notification before flushing a digest to the recipient.
const EMAIL_DIGEST_DELAY = 5 * time.Minute

// Kafka topics consumed by the fan-out workers.
const (
	TOPIC_EVENTS_PROCESS     = "events-process"
	TOPIC_NOTIFICATION_EMAIL = "notifications-email"
	TOPIC_CHAT_DELIVER       = "notifications-chat"
	TOPIC_CHAT_DELETE        = "notifications-chat-delete"
	TOPIC_PUSH_DELIVER       = "notifications-push"
	TOPIC_WEBHOOK_EVENTS     = "webhook-events"
	TOPIC_PUSHER_EVENTS      = "pusher-events"
)
