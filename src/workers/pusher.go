package workers

import (
	"encoding/json"
	"huddle/src/lib"
	"log"

	"github.com/tidwall/gjson"
)

// HandlePusherEvent pushes one realtime event to its channel.
func HandlePusherEvent(message string) {
	channel := gjson.Get(message, "channel").String()
	event := gjson.Get(message, "event").String()
	if channel == "" || event == "" {
		log.Printf("[pusher] Skipping malformed message: %s\n", message)
		return
	}
	payload := map[string]any{}
	if raw := gjson.Get(message, "payload").Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			log.Printf("[pusher] Error parsing payload: %s\n", err.Error())
		}
	}
	if err := lib.PusherTrigger(channel, event, payload); err != nil {
		log.Printf("[pusher] Error triggering %s on %s: %s\n", event, channel, err.Error())
	}
}
