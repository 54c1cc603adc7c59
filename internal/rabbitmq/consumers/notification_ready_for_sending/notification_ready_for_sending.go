package notificationreadyforsending

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	"aiexchange/internal/rabbitmq/schema"
	"context"

	"github.com/rabbitmq/amqp091-go"
)

type consumer interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

// Consumer hands queued notifications to a dispatcher. A failed delivery is
// requeued once; if the redelivery fails as well the message is dropped.
type Consumer struct {
	log        logging.Logger
	channel    consumer
	queue      string
	dispatcher notification.Dispatcher
}

func New(
	log logging.Logger,
	channel consumer,
	queue string,
	dispatcher notification.Dispatcher,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic(e.NewInvalidArgumentError("queue", "must not be empty"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, dispatcher: dispatcher}
}

func (c *Consumer) Consume(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("queue", c.queue), logging.Entry("err", err))
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				c.handle(ctx, delivery)
			}
		}
	}()
	return nil
}

func (c *Consumer) handle(ctx context.Context, delivery amqp091.Delivery) {
	n := &schema.Notification{}
	if err := n.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal notification, dropping it.",
			logging.Entry("deliveryTag", delivery.DeliveryTag),
			logging.Entry("err", err),
		)
		c.ack(ctx, delivery)
		return
	}

	message := n.Message()
	err := c.dispatcher.Send(ctx, message)
	if err == nil {
		c.log.Info(ctx, "Notification delivered.", logging.Entry("to", message.To), logging.Entry("type", message.Type))
		c.ack(ctx, delivery)
		return
	}

	if !delivery.Redelivered {
		c.log.Warning(
			ctx,
			"Could not deliver notification, requeueing it.",
			logging.Entry("to", message.To),
			logging.Entry("err", err),
		)
		if err := delivery.Nack(false, true); err != nil {
			c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
		}
		return
	}

	c.log.Error(
		ctx,
		"Could not deliver notification after redelivery, dropping it.",
		logging.Entry("to", message.To),
		logging.Entry("enqueuedAt", n.EnqueuedAt),
		logging.Entry("err", err),
	)
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
