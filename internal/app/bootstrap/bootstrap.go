package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	deliverablereview "deliverables/contexts/campaign-editorial/deliverable-review-service"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/memory"
	postgresadapter "deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/postgres"
	redisadapter "deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/redis"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/workers"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
	"deliverables/internal/platform/cache"
	"deliverables/internal/platform/config"
	"deliverables/internal/platform/db"
	"deliverables/internal/platform/httpserver"
	"deliverables/internal/platform/messaging"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const uploadProgressExpiry = 7 * 24 * time.Hour

type APIApp struct {
	server  *httpserver.Server
	backend *backend
	logger  *slog.Logger
}

type WorkerApp struct {
	backend      *backend
	bus          *messaging.Bus
	rabbit       *messaging.RabbitMQ
	outboxRelay  workers.OutboxRelay
	uploads      workers.UploadProgressConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// CLIApp runs deliverablectl commands directly against the configured stores.
type CLIApp struct {
	Module  deliverablereview.Module
	Actor   entities.Actor
	backend *backend
}

// backend holds the stores selected by configuration. Without POSTGRES_DSN the
// in-memory store serves every port; without REDIS_ADDR locks and upload
// progress stay process-local.
type backend struct {
	repository ports.Repository
	campaigns  ports.CampaignDirectory
	outbox     ports.OutboxRepository
	locker     ports.Locker
	progress   ports.UploadProgressStore
	clock      ports.Clock
	idGen      ports.IDGenerator
	postgres   *db.Postgres
	redis      *redis.Client
}

type campaignWriter interface {
	PutCampaign(ctx context.Context, campaign entities.Campaign) error
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	b, err := openBackend(cfg, logger, false)
	if err != nil {
		return nil, err
	}

	module := newModule(cfg, b, logger)
	auth := httpserver.NewAuthenticator(cfg.JWTSecret, cfg.JWTLeeway)
	server := httpserver.New(module, auth, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:  server,
		backend: b,
		logger:  logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	b, err := openBackend(cfg, logger, true)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	var subscriber ports.EventSubscriber = bus
	var rabbit *messaging.RabbitMQ
	if strings.TrimSpace(cfg.RabbitMQURL) != "" {
		rabbit, err = messaging.NewRabbitMQ(cfg.RabbitMQURL, cfg.UploadProgressQueue, logger)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		subscriber = rabbit
	}

	module := newModule(cfg, b, logger)
	uploads := deliverablereview.NewUploadProgressConsumer(module, subscriber, b.progress, "", logger)
	uploads.Disabled = !cfg.EnableUploadProgressConsumer

	return &WorkerApp{
		backend:      b,
		bus:          bus,
		rabbit:       rabbit,
		outboxRelay:  deliverablereview.NewOutboxRelay(b.outbox, bus, b.clock, cfg.OutboxBatchSize, logger),
		uploads:      uploads,
		pollInterval: cfg.WorkerPoll,
		logger:       logger,
	}, nil
}

// BuildCLI wires the module for deliverablectl. The CLI acts as an admin
// whose id is passed by the caller.
func BuildCLI(adminID string) (*CLIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "cli")
	b, err := openBackend(cfg, logger, true)
	if err != nil {
		return nil, err
	}
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		adminID = "deliverablectl"
	}
	return &CLIApp{
		Module:  newModule(cfg, b, logger),
		Actor:   entities.Actor{UserID: adminID, Role: entities.ActorRoleAdmin},
		backend: b,
	}, nil
}

func openBackend(cfg config.Config, logger *slog.Logger, requirePostgres bool) (*backend, error) {
	ctx := context.Background()
	seeds, err := parseCampaignSeeds(cfg.SeedCampaigns)
	if err != nil {
		return nil, err
	}

	b := &backend{}
	local := memory.NewStore(nil, nil)
	var writer campaignWriter = local

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		if requirePostgres {
			return nil, errors.New("POSTGRES_DSN is required")
		}
		logger.Warn("POSTGRES_DSN not set, using in-memory store",
			"event", "bootstrap_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		b.repository = local
		b.campaigns = local
		b.outbox = local
		b.clock = local
		b.idGen = local
	} else {
		pg, err := db.Connect(cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		b.postgres = pg
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if cfg.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				_ = b.Close()
				return nil, err
			}
		}
		b.repository = repo
		b.campaigns = repo
		b.outbox = repo
		b.clock = postgresadapter.SystemClock{}
		b.idGen = postgresadapter.UUIDGenerator{}
		writer = repo
	}

	if strings.TrimSpace(cfg.RedisAddr) == "" {
		b.locker = local
		b.progress = local
	} else {
		client, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.redis = client
		b.locker = redisadapter.NewLocker(client, cfg.LockTTL, cfg.LockWait, logger)
		b.progress = redisadapter.NewUploadProgressStore(client, uploadProgressExpiry)
	}

	for _, campaign := range seeds {
		if err := writer.PutCampaign(ctx, campaign); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("seed campaign %s: %w", campaign.CampaignID, err)
		}
	}
	return b, nil
}

func newModule(cfg config.Config, b *backend, logger *slog.Logger) deliverablereview.Module {
	return deliverablereview.NewModule(deliverablereview.Dependencies{
		Repository:      b.repository,
		Campaigns:       b.campaigns,
		Locker:          b.locker,
		Clock:           b.clock,
		IDGen:           b.idGen,
		PostingDueIn:    cfg.PostingDueIn(),
		FinalDraftDueIn: cfg.FinalDraftDueIn(),
		Logger:          logger,
	})
}

// parseCampaignSeeds reads entries of the form id:ORIGIN[:raw_footage][:photo].
func parseCampaignSeeds(raw []string) ([]entities.Campaign, error) {
	out := make([]entities.Campaign, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid campaign seed %q", entry)
		}
		campaign := entities.Campaign{
			CampaignID: strings.TrimSpace(parts[0]),
			Name:       strings.TrimSpace(parts[0]),
			Origin:     entities.CampaignOrigin(strings.ToUpper(strings.TrimSpace(parts[1]))),
		}
		for _, flag := range parts[2:] {
			switch kind, _ := entities.ParseMediaKind(flag); kind {
			case entities.MediaKindRawFootage:
				campaign.RawFootageEnabled = true
			case entities.MediaKindPhoto:
				campaign.PhotosEnabled = true
			default:
				return nil, fmt.Errorf("invalid campaign seed flag %q", flag)
			}
		}
		if !campaign.Validate() {
			return nil, fmt.Errorf("invalid campaign seed %q", entry)
		}
		out = append(out, campaign)
	}
	return out, nil
}

func (b *backend) Close() error {
	var errs []error
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	if b.postgres != nil {
		errs = append(errs, b.postgres.Close())
	}
	return errors.Join(errs...)
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	if a.backend != nil {
		return a.backend.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.uploads.Start(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"rabbitmq", w.rabbit != nil,
	)
	return w.outboxRelay.Run(ctx, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.rabbit != nil {
		errs = append(errs, w.rabbit.Close())
	}
	if w.backend != nil {
		errs = append(errs, w.backend.Close())
	}
	return errors.Join(errs...)
}

func (c *CLIApp) Close() error {
	if c.backend != nil {
		return c.backend.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
