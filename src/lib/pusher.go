package lib

import (
	"os"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient == nil {
		pusherClient = &pusher.Client{
			AppID:   os.Getenv("PUSHER_APP_ID"),
			Key:     os.Getenv("PUSHER_KEY"),
			Secret:  os.Getenv("PUSHER_SECRET"),
			Cluster: os.Getenv("PUSHER_CLUSTER"),
		}
	}
	return pusherClient
}

// PusherTrigger sends one event to a channel. Channels are per-user or
// per-organization; payloads are small stale markers, never full records.
func PusherTrigger(channel, event string, data map[string]any) error {
	return GetPusherClient().Trigger(channel, event, data)
}
