package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoassist_backend/internal/adapters/storage"
	"autoassist_backend/internal/conversation"
	"autoassist_backend/internal/email"
	"autoassist_backend/internal/events"
	apphttp "autoassist_backend/internal/http"
	"autoassist_backend/internal/http/router"
	"autoassist_backend/internal/leads"
	leadservice "autoassist_backend/internal/leads/service"
	"autoassist_backend/internal/notification"
	"autoassist_backend/internal/scheduler"
	"autoassist_backend/internal/webhook"
	"autoassist_backend/internal/whatsapp"
	"autoassist_backend/platform/config"
	"autoassist_backend/platform/db"
	"autoassist_backend/platform/logger"
	"autoassist_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis-backed conversation window cache. The leads service falls back
	// to the database when the cache is unavailable.
	var conversationCache leadservice.ConversationCache
	if cache, err := conversation.NewCache(cfg); err != nil {
		log.Warn("conversation cache unavailable, falling back to database", "error", err)
	} else {
		defer func() { _ = cache.Close() }()
		conversationCache = cache
	}

	// Task queue client for background CRM sync
	var taskEnqueuer leadservice.TaskEnqueuer
	if client, err := scheduler.NewClient(cfg); err != nil {
		log.Warn("task queue unavailable, CRM sync disabled", "error", err)
	} else {
		defer func() { _ = client.Close() }()
		taskEnqueuer = client
	}

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for inbound media attachments (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, svc, "message-media", cfg.GetMinioBucketMessageMedia())
		storageSvc = svc
		log.Info("storage service initialized", "messageMediaBucket", cfg.GetMinioBucketMessageMedia())
	} else {
		log.Warn("MinIO not configured, inbound media will be dropped")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	whatsappClient := whatsapp.NewClient(cfg, log)
	notificationModule := notification.NewModule(sender, whatsappClient, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	leadsModule := leads.NewModule(pool, eventBus, conversationCache, taskEnqueuer, storageSvc, cfg.GetMinioBucketMessageMedia(), log)
	webhookModule := webhook.NewModule(pool, leadsModule.Service(), storageSvc, cfg.GetMinioBucketMessageMedia(), val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			webhookModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
