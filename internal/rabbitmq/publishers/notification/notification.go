package notificationpublisher

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	"aiexchange/internal/rabbitmq/schema"
	"context"
	"errors"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var ErrPublishNotConfirmed = errors.New("publishing was not confirmed by the broker")

type publisher interface {
	PublishWithDeferredConfirmWithContext(
		ctx context.Context,
		exchange string,
		key string,
		mandatory bool,
		immediate bool,
		msg amqp091.Publishing,
	) (*amqp091.DeferredConfirmation, error)
}

// RabbitMQ enqueues messages for the mailer. The channel should be in confirm
// mode, then Send returns only after the broker acknowledged the message.
type RabbitMQ struct {
	log     logging.Logger
	channel publisher
	queue   string
	now     func() time.Time
}

func NewRabbitMQ(log logging.Logger, channel publisher, queue string, now func() time.Time) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic(e.NewInvalidArgumentError("queue", "must not be empty"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, queue: queue, now: now}
}

func (p *RabbitMQ) Send(ctx context.Context, message notification.Message) error {
	body, err := schema.NewNotification(message, p.now()).Marshal()
	if err != nil {
		return err
	}

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    p.now(),
		Type:         string(message.Type),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("queue", p.queue))
		return err
	}

	if confirmation != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-confirmation.Done():
		}
		if !confirmation.Acked() {
			p.log.Error(ctx, "AMQP message was nacked.", logging.Entry("queue", p.queue))
			return ErrPublishNotConfirmed
		}
	}

	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("queue", p.queue),
		logging.Entry("type", message.Type),
	)
	return nil
}
