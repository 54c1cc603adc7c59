package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

const (
	DISPATCHER_LOG  = "log"
	DISPATCHER_SES  = "ses"
	DISPATCHER_AMQP = "amqp"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       int    `env:"PORT" envDefault:"8000"`
	// Secret peppers password hashes and must never change once users exist.
	Secret string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	RabbitmqURL               string `env:"RABBITMQ_URL"`
	RabbitmqNotificationQueue string `env:"RABBITMQ_NOTIFICATION_QUEUE" envDefault:"notification_ready_for_sending"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"12"`

	PasswordResetCodeTTL       time.Duration `env:"PASSWORD_RESET_CODE_TTL" envDefault:"30m"`
	PasswordResetRetentionDays int           `env:"PASSWORD_RESET_RETENTION_DAYS" envDefault:"7"`
	PasswordResetPurgePeriod   time.Duration `env:"PASSWORD_RESET_PURGE_PERIOD" envDefault:"1h"`

	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET,required"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`

	AllowedOrigins            []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AuthRequestsPerMinuteByIP int      `env:"AUTH_REQUESTS_PER_MINUTE_BY_IP" envDefault:"30"`

	NotificationDispatcher string `env:"NOTIFICATION_DISPATCHER" envDefault:"log"`

	AwsRegion      string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	AwsEmailSender string `env:"AWS_EMAIL_SENDER"`
}

// Load reads an optional .env file from the working directory and then
// parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.BcryptHasherCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.PasswordResetCodeTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.PasswordResetRetentionDays, validation.Min(0)),
		validation.Field(&c.PasswordResetPurgePeriod, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.AuthRequestsPerMinuteByIP, validation.Required, validation.Min(1)),
		validation.Field(
			&c.NotificationDispatcher,
			validation.Required,
			validation.In(DISPATCHER_LOG, DISPATCHER_SES, DISPATCHER_AMQP),
		),
	)
	if err != nil {
		return err
	}

	if c.AccessTokenSecret == c.Secret {
		return errors.New("ACCESS_TOKEN_SECRET must differ from SECRET")
	}
	if c.NotificationDispatcher == DISPATCHER_AMQP && c.RabbitmqURL == "" {
		return errors.New("RABBITMQ_URL must be set for the amqp dispatcher")
	}
	if c.NotificationDispatcher != DISPATCHER_LOG && c.AwsEmailSender == "" {
		return fmt.Errorf("AWS_EMAIL_SENDER must be set for the %s dispatcher", c.NotificationDispatcher)
	}
	return nil
}
