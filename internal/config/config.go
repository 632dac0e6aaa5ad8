package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN          string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL          string `env:"RABBITMQ_URL,required=true"`
	RedisURL             string `env:"REDIS_URL,required=true"`
	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID,required=true"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN,required=true"`
	TwilioFromNumber     string `env:"TWILIO_FROM_NUMBER,required=true"`
	BlobEndpoint         string `env:"BLOB_ENDPOINT,required=true"`
	BlobAccessKey        string `env:"BLOB_ACCESS_KEY,required=true"`
	BlobSecretKey        string `env:"BLOB_SECRET_KEY,required=true"`
	BlobUseSSL           bool   `env:"BLOB_USE_SSL,default=true"`
	RecipientBucket      string `env:"RECIPIENT_BUCKET,default=wapush-recipients"`
	StatusCallbackURL    string `env:"STATUS_CALLBACK_URL"`
	SendRateLimitPerSec  int    `env:"SEND_RATE_LIMIT_PER_SEC,default=80"`
	WorkerPrefetch       int    `env:"WORKER_PREFETCH,default=8"`
	APIPort              int    `env:"API_PORT,default=8080"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
