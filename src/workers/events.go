package workers

import (
	"huddle/src/processors"
	"log"

	"github.com/tidwall/gjson"
)

// HandleEventProcess consumes the event processing topic. Failed events are
// logged and left for the producer to replay; processing is idempotent.
func HandleEventProcess(message string) {
	eventID := gjson.Get(message, "event_id").Uint()
	if eventID == 0 {
		log.Printf("[events] Skipping message without event_id: %s\n", message)
		return
	}
	if err := processors.ProcessEvent(uint(eventID)); err != nil {
		log.Printf("[events] Error processing event [%d]: %s\n", eventID, err.Error())
	}
}
