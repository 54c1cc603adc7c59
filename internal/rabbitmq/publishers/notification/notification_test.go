package notificationpublisher

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	"aiexchange/internal/rabbitmq/schema"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithDeferredConfirmWithContext(
	ctx context.Context,
	exchange string,
	key string,
	mandatory bool,
	immediate bool,
	msg amqp091.Publishing,
) (*amqp091.DeferredConfirmation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil, nil
}

func TestSendPublishesPersistentJSON(t *testing.T) {
	channel := &fakeChannel{}
	publisher := NewRabbitMQ(logging.NewFakeLogger(), channel, "notifications", func() time.Time { return NOW })
	message := notification.Message{
		To:      c.Email("a@x.com"),
		Subject: "Your password reset code",
		Body:    "483920",
		Type:    notification.TypePasswordReset,
	}

	err := publisher.Send(context.Background(), message)

	require.NoError(t, err)
	require.Equal(t, []string{"notifications"}, channel.keys)
	published := channel.published[0]
	require.Equal(t, amqp091.Persistent, published.DeliveryMode)
	require.Equal(t, "application/json", published.ContentType)

	decoded := &schema.Notification{}
	require.NoError(t, decoded.Unmarshal(published.Body))
	require.Equal(t, message, decoded.Message())
	require.Equal(t, NOW, decoded.EnqueuedAt)
}

func TestSendFailure(t *testing.T) {
	channel := &fakeChannel{err: errors.New("channel closed")}
	log := logging.NewFakeLogger()
	publisher := NewRabbitMQ(log, channel, "notifications", func() time.Time { return NOW })

	err := publisher.Send(context.Background(), notification.Message{To: c.Email("a@x.com")})

	require.ErrorIs(t, err, channel.err)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}
