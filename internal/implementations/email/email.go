package email

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/notification"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Dispatcher struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender string
}

func NewDispatcher(awsConfig aws.Config, sender string) *Dispatcher {
	return newDispatcher(ses.NewFromConfig(awsConfig), sender)
}

func newDispatcher(client sesClient, sender string) *Dispatcher {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if sender == "" {
		panic(e.NewInvalidArgumentError("sender", "must not be empty"))
	}
	return &Dispatcher{ses: client, sender: sender}
}

func (d *Dispatcher) Send(ctx context.Context, message notification.Message) error {
	if message.To == "" {
		return fmt.Errorf("recipient is not defined for %s message", message.Type)
	}
	_, err := d.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(d.sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{string(message.To)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(message.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(message.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("could not send %s email: %w", message.Type, err)
	}
	return nil
}
