package consumers

import (
	"aiexchange/internal/app/deps"
	dl "aiexchange/internal/core/domain/logging"
	notificationreadyforsending "aiexchange/internal/rabbitmq/consumers/notification_ready_for_sending"
	"context"
)

func initNotificationReadyForSendingConsumer(ctx context.Context, deps *deps.Deps) func() {
	if deps.EmailDispatcher == nil {
		panic("AWS_EMAIL_SENDER must be set to deliver notifications")
	}
	if deps.Rabbitmq == nil {
		panic("RABBITMQ_URL must be set to consume notifications")
	}

	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(ctx, "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqNotificationQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(ctx, "Could not create RabbitMQ queue.", dl.Entry("err", err), dl.Entry("queue", queue))
		panic(err)
	}

	consumer := notificationreadyforsending.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		deps.EmailDispatcher,
	)
	if err = consumer.Consume(ctx); err != nil {
		deps.Logger.Error(
			ctx,
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(ctx, "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(ctx context.Context, deps *deps.Deps) func() {
	shutdownNotificationReadyForSendingConsumer := initNotificationReadyForSendingConsumer(ctx, deps)

	return func() {
		shutdownNotificationReadyForSendingConsumer()
	}
}
