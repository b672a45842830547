package models

import (
	"huddle/src/types"
	"time"
)

type MessageThread struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	OrganizationID uint   `json:"organization_id,omitempty"`
	Title          string `json:"title,omitempty"`

	types.Timestamps
}

// Message is a chat message. Reactions on messages never notify.
type Message struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ThreadID    uint       `json:"thread_id,omitempty"`
	SenderID    uint       `json:"sender_id,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`

	Thread MessageThread          `gorm:"foreignKey:thread_id" json:"-"`
	Sender OrganizationMembership `gorm:"foreignKey:sender_id" json:"-"`

	types.Timestamps
}
