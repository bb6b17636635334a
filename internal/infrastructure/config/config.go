package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	WriteDB    MongoConfig `env:", prefix=MONGO_WRITE_"`
	ReadDB     MongoConfig `env:", prefix=MONGO_READ_"`
	ActivityDB MongoConfig `env:", prefix=MONGO_ACTIVITY_"`

	Rabbit RabbitConfig
	Redis  RedisConfig
	Outbox OutboxConfig
}

type MongoConfig struct {
	URI      string `env:"URI, default=mongodb://localhost:27017"`
	Database string `env:"DB"`
}

// RabbitConfig mirrors the deployment's broker variables: one connection URL
// plus one named queue per event type.
type RabbitConfig struct {
	URL      string `env:"RABBIT_URL,      default=amqp://localhost:5672/"`
	Username string `env:"RABBIT_USERNAME, default=guest"`
	Password string `env:"RABBIT_PASSWORD, default=guest"`

	QueueUserCreated       string `env:"RABBIT_QUEUE,                        default=user-created"`
	QueueUserUpdated       string `env:"RABBIT_QUEUE_UPDATE,                 default=user-updated"`
	QueueUserActivity      string `env:"RABBIT_QUEUE_ACTIVITY,               default=user-activity"`
	QueueUserRoleUpdated   string `env:"RABBIT_QUEUE_UPDATE_ROLE,            default=user-role-updated"`
	QueuePermissionAdded   string `env:"RABBIT_QUEUE_ADD_ROLE_PERMISSION,    default=role-permission-added"`
	QueuePermissionRemoved string `env:"RABBIT_QUEUE_REMOVE_ROLE_PERMISSION, default=role-permission-removed"`

	RetryAttempts int           `env:"RABBIT_RETRY_ATTEMPTS, default=3"`
	RetryInterval time.Duration `env:"RABBIT_RETRY_INTERVAL, default=5s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OutboxConfig struct {
	Interval  time.Duration `env:"OUTBOX_RELAY_INTERVAL, default=1s"`
	BatchSize int           `env:"OUTBOX_RELAY_BATCH,    default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.WriteDB.Database == "" {
		cfg.WriteDB.Database = "usuarios_write"
	}
	if cfg.ReadDB.Database == "" {
		cfg.ReadDB.Database = "usuarios_read"
	}
	if cfg.ActivityDB.Database == "" {
		cfg.ActivityDB.Database = "usuarios_activity"
	}
	return &cfg, nil
}
