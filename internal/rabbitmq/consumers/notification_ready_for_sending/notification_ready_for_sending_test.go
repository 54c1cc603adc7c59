package notificationreadyforsending

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	"aiexchange/internal/rabbitmq/schema"
	"context"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

type fakeChannel struct {
	deliveries chan amqp091.Delivery
}

func (f *fakeChannel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp091.Table,
) (<-chan amqp091.Delivery, error) {
	return f.deliveries, nil
}

func newDelivery(t *testing.T, acknowledger *fakeAcknowledger, redelivered bool) amqp091.Delivery {
	body, err := schema.NewNotification(notification.Message{
		To:      c.Email("a@x.com"),
		Subject: "Your password reset code",
		Body:    "483920",
		Type:    notification.TypePasswordReset,
	}, time.Now()).Marshal()
	require.NoError(t, err)
	return amqp091.Delivery{Acknowledger: acknowledger, Body: body, Redelivered: redelivered}
}

func newConsumer(dispatcher notification.Dispatcher) *Consumer {
	return New(logging.NewFakeLogger(), &fakeChannel{}, "notifications", dispatcher)
}

func TestDelivered(t *testing.T) {
	dispatcher := notification.NewFakeDispatcher()
	acknowledger := &fakeAcknowledger{}

	newConsumer(dispatcher).handle(context.Background(), newDelivery(t, acknowledger, false))

	require.Equal(t, 1, acknowledger.acked)
	require.Equal(t, 0, acknowledger.nacked)
	require.Equal(t, c.Email("a@x.com"), dispatcher.LastSent().To)
}

func TestFailedDeliveryIsRequeuedOnce(t *testing.T) {
	dispatcher := notification.NewFakeDispatcher()
	dispatcher.ReturnError = true
	consumer := newConsumer(dispatcher)

	first := &fakeAcknowledger{}
	consumer.handle(context.Background(), newDelivery(t, first, false))
	require.Equal(t, 1, first.nacked)
	require.True(t, first.requeue)

	second := &fakeAcknowledger{}
	consumer.handle(context.Background(), newDelivery(t, second, true))
	require.Equal(t, 0, second.nacked)
	require.Equal(t, 1, second.acked)
}

func TestMalformedMessageIsDropped(t *testing.T) {
	dispatcher := notification.NewFakeDispatcher()
	acknowledger := &fakeAcknowledger{}

	newConsumer(dispatcher).handle(
		context.Background(),
		amqp091.Delivery{Acknowledger: acknowledger, Body: []byte("{")},
	)

	require.Equal(t, 1, acknowledger.acked)
	require.Equal(t, 0, dispatcher.SentCount())
}

func TestConsumeStopsWithContext(t *testing.T) {
	dispatcher := notification.NewFakeDispatcher()
	channel := &fakeChannel{deliveries: make(chan amqp091.Delivery)}
	consumer := New(logging.NewFakeLogger(), channel, "notifications", dispatcher)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, consumer.Consume(ctx))
	acknowledger := &fakeAcknowledger{}
	channel.deliveries <- newDelivery(t, acknowledger, false)

	require.Eventually(t, func() bool { return dispatcher.SentCount() == 1 }, time.Second, 10*time.Millisecond)
}
