package boot

import (
	"huddle/src/config"
	"huddle/src/db"
	"huddle/src/lib"
	awslib "huddle/src/lib/aws"
	"huddle/src/models"
	"huddle/src/workers"
	"log"
	"os"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMembership{},
		&models.WebPushSubscription{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.ProjectPin{},
		&models.Post{},
		&models.Comment{},
		&models.Note{},
		&models.Subscription{},
		&models.Permission{},
		&models.FollowUp{},
		&models.Favorite{},
		&models.Reaction{},
		&models.MessageThread{},
		&models.Message{},
		&models.Call{},
		&models.OauthApplication{},
		&models.WebhookEndpoint{},
		&models.Event{},
		&models.Notification{},
		&models.TimelineEvent{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitBroker creates the fan-out topics, subscribes the workers and starts
// the inbound SQS consumer for call summarization results.
func InitBroker() {
	go lib.KafkaCreateTopics(
		config.TOPIC_EVENTS_PROCESS,
		config.TOPIC_NOTIFICATION_EMAIL,
		config.TOPIC_CHAT_DELIVER,
		config.TOPIC_CHAT_DELETE,
		config.TOPIC_PUSH_DELIVER,
		config.TOPIC_WEBHOOK_EVENTS,
		config.TOPIC_PUSHER_EVENTS,
	)

	lib.KafkaTopicsConsumer("fanout", map[string]func(string){
		config.TOPIC_EVENTS_PROCESS:     workers.HandleEventProcess,
		config.TOPIC_NOTIFICATION_EMAIL: workers.HandleEmailDeliver,
		config.TOPIC_CHAT_DELIVER:       workers.HandleChatDeliver,
		config.TOPIC_CHAT_DELETE:        workers.HandleChatDelete,
		config.TOPIC_PUSH_DELIVER:       workers.HandlePushDeliver,
		config.TOPIC_WEBHOOK_EVENTS:     workers.HandleWebhookEvent,
		config.TOPIC_PUSHER_EVENTS:      workers.HandlePusherEvent,
	})

	if queue := os.Getenv("CALLS_STATUS_QUEUE"); queue != "" {
		consumer := awslib.NewSQSConsumer(queue, workers.HandleCallStatusMessage)
		consumer.Listen()
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}
