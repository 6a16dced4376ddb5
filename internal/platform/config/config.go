package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string   `env:"SERVICE_NAME" envDefault:"deliverables"`
	HTTPPort      string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN   string   `env:"POSTGRES_DSN"`
	AutoMigrate   bool     `env:"POSTGRES_AUTO_MIGRATE" envDefault:"false"`
	SeedCampaigns []string `env:"SEED_CAMPAIGNS" envSeparator:","`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL       time.Duration `env:"SUBMISSION_LOCK_TTL" envDefault:"30s"`
	LockWait      time.Duration `env:"SUBMISSION_LOCK_WAIT" envDefault:"5s"`

	RabbitMQURL         string `env:"RABBITMQ_URL"`
	UploadProgressQueue string `env:"UPLOAD_PROGRESS_QUEUE" envDefault:"deliverable-upload-progress"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTLeeway time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`

	PostingDueDays    int           `env:"POSTING_DUE_DAYS" envDefault:"7"`
	FinalDraftDueDays int           `env:"FINAL_DRAFT_DUE_DAYS" envDefault:"7"`
	OutboxBatchSize   int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	WorkerPoll        time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2s"`

	EnableUploadProgressConsumer bool `env:"ENABLE_UPLOAD_PROGRESS_CONSUMER" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.ServiceName = strings.TrimSpace(cfg.ServiceName)
	if cfg.PostingDueDays <= 0 || cfg.FinalDraftDueDays <= 0 {
		return Config{}, errors.New("due day settings must be positive")
	}
	return cfg, nil
}

func (c Config) PostingDueIn() time.Duration {
	return time.Duration(c.PostingDueDays) * 24 * time.Hour
}

func (c Config) FinalDraftDueIn() time.Duration {
	return time.Duration(c.FinalDraftDueDays) * 24 * time.Hour
}
