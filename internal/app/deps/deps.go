package deps

import (
	"aiexchange/internal/config"
	dl "aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	drl "aiexchange/internal/core/domain/rate_limiter"
	duow "aiexchange/internal/core/domain/unit_of_work"
	"aiexchange/internal/core/domain/user"
	dbpasswordreset "aiexchange/internal/db/password_reset"
	uow "aiexchange/internal/db/unit_of_work"
	dbuser "aiexchange/internal/db/user"
	accesstoken "aiexchange/internal/implementations/access_token"
	"aiexchange/internal/implementations/email"
	"aiexchange/internal/implementations/logging"
	"aiexchange/internal/implementations/metrics"
	notificationlog "aiexchange/internal/implementations/notification_log"
	passwordhasher "aiexchange/internal/implementations/password_hasher"
	ratelimiter "aiexchange/internal/implementations/rate_limiter"
	resetcodegenerator "aiexchange/internal/implementations/reset_code_generator"
	"aiexchange/internal/rabbitmq"
	notificationpublisher "aiexchange/internal/rabbitmq/publishers/notification"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	MetricsRegistry *prometheus.Registry
	Metrics         *metrics.Metrics

	Now func() time.Time

	UnitOfWork             duow.UnitOfWork
	UserRepository         user.UserRepository
	ResetRequestRepository passwordreset.ResetRequestRepository

	RateLimiter drl.RateLimiter

	PasswordHasher     user.PasswordHasher
	AccessTokenManager user.AccessTokenManager
	CodeGenerator      passwordreset.CodeGenerator

	// EmailDispatcher talks to SES directly. NotificationDispatcher is the one
	// services use and depends on NOTIFICATION_DISPATCHER.
	EmailDispatcher        notification.Dispatcher
	NotificationDispatcher notification.Dispatcher
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	deps.initMetrics()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.ResetRequestRepository = dbpasswordreset.NewPgxResetRequestRepository(deps.DB)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.AccessTokenManager = accesstoken.NewJWTManager(deps.Config.AccessTokenSecret, deps.Config.AccessTokenTTL, deps.Now)
	deps.CodeGenerator = resetcodegenerator.NewGenerator()

	closeDispatcher, err := deps.initDispatchers(deps.openRabbitmqChannel)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not set up notification dispatcher.", dl.Entry("err", err))
		panic(err)
	}

	return deps, func() {
		closeFuncs := []func(){
			closeDispatcher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.IsTestMode)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}

	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initMetrics() {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.MetricsRegistry = registry
	deps.Metrics = metrics.New(registry)
}

// notificationChannel is the part of a RabbitMQ channel the notification
// publisher needs.
type notificationChannel interface {
	Confirm(noWait bool) error
	DeclareQueue(name string) error
	PublishWithDeferredConfirmWithContext(
		ctx context.Context,
		exchange string,
		key string,
		mandatory bool,
		immediate bool,
		msg amqp.Publishing,
	) (*amqp.DeferredConfirmation, error)
	Close() error
}

func (deps *Deps) openRabbitmqChannel() (notificationChannel, error) {
	if deps.Rabbitmq == nil {
		return nil, errors.New("RabbitMQ connection is not configured")
	}
	channel, err := deps.Rabbitmq.Channel()
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// initDispatchers sets EmailDispatcher when a sender address is configured and
// NotificationDispatcher according to NOTIFICATION_DISPATCHER. openChannel is
// only called for the amqp dispatcher.
func (deps *Deps) initDispatchers(openChannel func() (notificationChannel, error)) (func(), error) {
	if deps.Config.AwsEmailSender != "" {
		deps.EmailDispatcher = email.NewDispatcher(deps.AwsConfig, deps.Config.AwsEmailSender)
	}

	closeDispatcher := func() {}
	switch deps.Config.NotificationDispatcher {
	case config.DISPATCHER_LOG:
		deps.NotificationDispatcher = notificationlog.NewDispatcher(deps.Logger)
	case config.DISPATCHER_SES:
		if deps.EmailDispatcher == nil {
			return nil, errors.New("AWS_EMAIL_SENDER must be set for the ses dispatcher")
		}
		deps.NotificationDispatcher = deps.EmailDispatcher
	case config.DISPATCHER_AMQP:
		channel, err := deps.initNotificationPublisher(openChannel)
		if err != nil {
			return nil, err
		}
		closeDispatcher = func() {
			deps.Logger.Info(context.Background(), "Shutting down notification publisher.")
			channel.Close()
			deps.Logger.Info(context.Background(), "Notification publisher shut down.")
		}
	default:
		return nil, fmt.Errorf("unknown notification dispatcher %q", deps.Config.NotificationDispatcher)
	}

	deps.Logger.Info(
		context.Background(),
		"Notification dispatcher is ready.",
		dl.Entry("dispatcher", deps.Config.NotificationDispatcher),
	)
	return closeDispatcher, nil
}

func (deps *Deps) initNotificationPublisher(
	openChannel func() (notificationChannel, error),
) (notificationChannel, error) {
	channel, err := openChannel()
	if err != nil {
		return nil, fmt.Errorf("could not create RabbitMQ channel: %w", err)
	}
	if err := channel.Confirm(false); err != nil {
		channel.Close()
		return nil, fmt.Errorf("could not put RabbitMQ channel into confirm mode: %w", err)
	}

	queue := deps.Config.RabbitmqNotificationQueue
	if err := channel.DeclareQueue(queue); err != nil {
		channel.Close()
		return nil, fmt.Errorf("could not declare RabbitMQ queue %s: %w", queue, err)
	}

	deps.NotificationDispatcher = notificationpublisher.NewRabbitMQ(deps.Logger, channel, queue, deps.Now)
	deps.Logger.Info(context.Background(), "Notification publisher is ready.", dl.Entry("queue", queue))
	return channel, nil
}
