package deps

import (
	"aiexchange/internal/config"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/implementations/email"
	notificationlog "aiexchange/internal/implementations/notification_log"
	notificationpublisher "aiexchange/internal/rabbitmq/publishers/notification"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	confirmed  bool
	queues     []string
	closed     bool
	confirmErr error
	declareErr error
}

func (f *fakeChannel) Confirm(noWait bool) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = true
	return nil
}

func (f *fakeChannel) DeclareQueue(name string) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	f.queues = append(f.queues, name)
	return nil
}

func (f *fakeChannel) PublishWithDeferredConfirmWithContext(
	ctx context.Context,
	exchange string,
	key string,
	mandatory bool,
	immediate bool,
	msg amqp.Publishing,
) (*amqp.DeferredConfirmation, error) {
	return nil, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestDeps(dispatcher string, sender string) *Deps {
	return &Deps{
		Config: &config.Config{
			NotificationDispatcher:    dispatcher,
			RabbitmqNotificationQueue: "notification_ready_for_sending",
			AwsEmailSender:            sender,
		},
		AwsConfig: aws.Config{Region: "eu-central-1"},
		Logger:    logging.NewFakeLogger(),
		Now:       func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
}

func unusedChannel(t *testing.T) func() (notificationChannel, error) {
	return func() (notificationChannel, error) {
		t.Fatal("RabbitMQ channel must not be opened")
		return nil, nil
	}
}

func TestLogDispatcherWithoutSender(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_LOG, "")

	var closeDispatcher func()
	var err error
	require.NotPanics(t, func() { closeDispatcher, err = deps.initDispatchers(unusedChannel(t)) })

	require.NoError(t, err)
	require.IsType(t, &notificationlog.Dispatcher{}, deps.NotificationDispatcher)
	require.Nil(t, deps.EmailDispatcher)
	closeDispatcher()
}

func TestLogDispatcherWithSender(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_LOG, "no-reply@example.com")

	_, err := deps.initDispatchers(unusedChannel(t))

	require.NoError(t, err)
	require.IsType(t, &notificationlog.Dispatcher{}, deps.NotificationDispatcher)
	require.IsType(t, &email.Dispatcher{}, deps.EmailDispatcher)
}

func TestSesDispatcher(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_SES, "no-reply@example.com")

	_, err := deps.initDispatchers(unusedChannel(t))

	require.NoError(t, err)
	require.IsType(t, &email.Dispatcher{}, deps.NotificationDispatcher)
	require.Same(t, deps.EmailDispatcher, deps.NotificationDispatcher)
}

func TestSesDispatcherRequiresSender(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_SES, "")

	_, err := deps.initDispatchers(unusedChannel(t))

	require.Error(t, err)
	require.Nil(t, deps.NotificationDispatcher)
}

func TestAmqpDispatcher(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_AMQP, "no-reply@example.com")
	channel := &fakeChannel{}

	closeDispatcher, err := deps.initDispatchers(func() (notificationChannel, error) { return channel, nil })

	require.NoError(t, err)
	require.IsType(t, &notificationpublisher.RabbitMQ{}, deps.NotificationDispatcher)
	require.True(t, channel.confirmed)
	require.Equal(t, []string{"notification_ready_for_sending"}, channel.queues)
	require.False(t, channel.closed)

	closeDispatcher()
	require.True(t, channel.closed)
}

func TestAmqpDispatcherFailures(t *testing.T) {
	cases := []struct {
		id            string
		channel       *fakeChannel
		openErr       error
		expectedClose bool
	}{
		{id: "open fails", openErr: errors.New("connection refused")},
		{id: "confirm fails", channel: &fakeChannel{confirmErr: errors.New("not allowed")}, expectedClose: true},
		{id: "declare fails", channel: &fakeChannel{declareErr: errors.New("precondition failed")}, expectedClose: true},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			deps := newTestDeps(config.DISPATCHER_AMQP, "no-reply@example.com")

			_, err := deps.initDispatchers(func() (notificationChannel, error) {
				if testcase.openErr != nil {
					return nil, testcase.openErr
				}
				return testcase.channel, nil
			})

			require.Error(t, err)
			require.Nil(t, deps.NotificationDispatcher)
			if testcase.channel != nil {
				require.Equal(t, testcase.expectedClose, testcase.channel.closed)
			}
		})
	}
}

func TestUnknownDispatcher(t *testing.T) {
	deps := newTestDeps("smtp", "")

	_, err := deps.initDispatchers(unusedChannel(t))

	require.ErrorContains(t, err, "smtp")
}

func TestRabbitmqChannelRequiresConnection(t *testing.T) {
	deps := newTestDeps(config.DISPATCHER_AMQP, "no-reply@example.com")

	_, err := deps.initDispatchers(deps.openRabbitmqChannel)

	require.Error(t, err)
	require.Nil(t, deps.NotificationDispatcher)
}
