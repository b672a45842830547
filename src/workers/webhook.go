package workers

import (
	"encoding/json"
	"huddle/src/db"
	"huddle/src/lib"
	"huddle/src/models"
	"log"
	"os"
	"sync"

	"github.com/tidwall/gjson"
)

// HandleWebhookEvent fans one event out to every application endpoint
// subscribed to it. Endpoints are independent; one slow or dead endpoint must
// not hold up the others, so deliveries run in parallel.
func HandleWebhookEvent(message string) {
	organizationID := gjson.Get(message, "organization_id").Uint()
	eventType := gjson.Get(message, "event_type").String()
	if organizationID == 0 || eventType == "" {
		log.Printf("[webhooks] Skipping malformed message: %s\n", message)
		return
	}
	payload := map[string]any{}
	if raw := gjson.Get(message, "payload").Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			log.Printf("[webhooks] Error parsing payload: %s\n", err.Error())
		}
	}

	conn := db.GetDb()
	apps := models.AppsWithWebhookFor(conn, uint(organizationID), eventType)
	if len(apps) == 0 {
		return
	}

	// app.mentioned events carry the mentioned application; only its own
	// endpoints get the delivery.
	mentionedAppID := gjson.Get(message, "payload.application_id").Uint()

	queue := os.Getenv("WEBHOOK_QUEUE")
	var wg sync.WaitGroup
	for _, app := range apps {
		if mentionedAppID != 0 && app.ID != uint(mentionedAppID) {
			continue
		}
		for _, endpoint := range app.WebhookEndpoints {
			if !endpoint.SubscribedTo(eventType) {
				continue
			}
			wg.Add(1)
			go func(url string, secret string) {
				defer wg.Done()
				body, err := json.Marshal(map[string]any{
					"url":        url,
					"secret":     secret,
					"event_type": eventType,
					"payload":    payload,
				})
				if err != nil {
					log.Printf("[webhooks] Error serializing delivery: %s\n", err.Error())
					return
				}
				if _, err := lib.SQSProduceMessage(queue, string(body)); err != nil {
					log.Printf("[webhooks] Error queueing delivery to %s: %s\n", url, err.Error())
					if arn := os.Getenv("ALERTS_TOPIC_ARN"); arn != "" {
						lib.SNSPublish(arn, "webhook delivery enqueue failed for "+url)
					}
				}
			}(endpoint.URL, endpoint.Secret)
		}
	}
	wg.Wait()
}
