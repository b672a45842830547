package aws

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func GetSESClient() *ses.Client {
	if sesClient == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Printf("Could not load default config: %s\n", err.Error())
			return nil
		}
		sesClient = ses.NewFromConfig(cfg)
	}
	return sesClient
}

// SESSendEmail sends a single HTML email through SES.
func SESSendEmail(from, to, subject, htmlBody string) error {
	c := GetSESClient()
	input := &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body:    &types.Body{Html: &types.Content{Data: aws.String(htmlBody)}},
		},
	}
	out, err := c.SendEmail(context.TODO(), input)
	if err != nil {
		return err
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
	return nil
}
