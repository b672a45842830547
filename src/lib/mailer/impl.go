package mailer

import (
	"encoding/json"
	"fmt"
	"huddle/src/lib"
	"huddle/src/types"
	"os"
)

// NewMailerMessage queues an email for the external mail workers. Local
// environments ride the kafka topic so a dev box needs no SQS access; with no
// queue configured at all the message goes straight out over SMTP.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	if emailQueue == "" {
		return lib.SendMail(input)
	}
	emailBody := types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"bcc":       input.Bcc,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if apiEnv == "local" {
		if err := lib.KafkaProduceMessage("emails", emailQueue, emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if _, err := lib.SQSProduceMessage(emailQueue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
