package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// OauthApplication is an integration installed in an organization; it can be
// mentioned in content and can subscribe to webhook events.
type OauthApplication struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	OrganizationID uint       `json:"organization_id,omitempty"`
	Name           string     `json:"name,omitempty"`
	UID            string     `gorm:"index" json:"uid,omitempty"`
	DiscardedAt    *time.Time `gorm:"index" json:"-"`

	WebhookEndpoints []WebhookEndpoint `gorm:"foreignKey:oauth_application_id" json:"-"`

	types.Timestamps
}

func (a *OauthApplication) Kept() bool {
	return a.DiscardedAt == nil
}

type WebhookEndpoint struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	OauthApplicationID uint             `json:"oauth_application_id,omitempty"`
	URL                string           `json:"url,omitempty"`
	Secret             string           `json:"-"`
	EventTypes         types.JSONBArray `gorm:"type:jsonb" json:"event_types,omitempty"`
	DiscardedAt        *time.Time       `gorm:"index" json:"-"`

	types.Timestamps
}

func (e *WebhookEndpoint) Kept() bool {
	return e.DiscardedAt == nil
}

func (e *WebhookEndpoint) SubscribedTo(eventType string) bool {
	for _, raw := range e.EventTypes {
		if s, ok := raw.(string); ok && s == eventType {
			return true
		}
	}
	return false
}

// AppsWithWebhookFor returns the kept applications in the organization that
// have at least one live endpoint subscribed to the event type.
func AppsWithWebhookFor(tx *gorm.DB, organizationID uint, eventType string) []OauthApplication {
	var apps []OauthApplication
	if err := tx.
		Preload("WebhookEndpoints", "discarded_at IS NULL").
		Where(&OauthApplication{OrganizationID: organizationID}).
		Where("discarded_at IS NULL").
		Find(&apps).
		Error; err != nil {
		log.Printf("Error loading applications for organization [%d]: %s\n", organizationID, err.Error())
		return nil
	}
	subscribed := []OauthApplication{}
	for _, app := range apps {
		for _, endpoint := range app.WebhookEndpoints {
			if endpoint.SubscribedTo(eventType) {
				subscribed = append(subscribed, app)
				break
			}
		}
	}
	return subscribed
}

// AppHasActiveWebhookFor reports whether the application has a live endpoint
// subscribed to the event type; mentions of apps without one never fan out.
func AppHasActiveWebhookFor(tx *gorm.DB, appID uint, eventType string) bool {
	var app OauthApplication
	if err := tx.
		Preload("WebhookEndpoints", "discarded_at IS NULL").
		First(&app, appID).
		Error; err != nil {
		log.Printf("Error loading application [%d]: %s\n", appID, err.Error())
		return false
	}
	if !app.Kept() {
		return false
	}
	for _, endpoint := range app.WebhookEndpoints {
		if endpoint.SubscribedTo(eventType) {
			return true
		}
	}
	return false
}
