package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelquote_backend/internal/adapters"
	"travelquote_backend/internal/adapters/storage"
	"travelquote_backend/internal/auth"
	"travelquote_backend/internal/catalog"
	"travelquote_backend/internal/clients"
	"travelquote_backend/internal/email"
	"travelquote_backend/internal/events"
	apphttp "travelquote_backend/internal/http"
	"travelquote_backend/internal/http/router"
	"travelquote_backend/internal/identity"
	identityrepo "travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/notification"
	"travelquote_backend/internal/quotations"
	"travelquote_backend/internal/scheduler"
	"travelquote_backend/platform/config"
	"travelquote_backend/platform/db"
	"travelquote_backend/platform/logger"
	"travelquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

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

	eventBus := events.NewInMemoryBus(log)

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	settingsCache := identityrepo.NewSettingsCache(redisClient, cfg.GetSettingsCacheTTL())

	followUpScheduler, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg)
	val := validator.New()

	var objectStore storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, store, "agency-logos", cfg.GetMinioBucketAgencyLogos())
		ensureBucket(ctx, log, store, "catalog-photos", cfg.GetMinioBucketCatalogPhotos())
		objectStore = store
		log.Info("storage service initialized",
			"agencyLogosBucket", cfg.GetMinioBucketAgencyLogos(),
			"catalogPhotosBucket", cfg.GetMinioBucketCatalogPhotos(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; file uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	identityModule := identity.NewModule(pool, settingsCache, eventBus, objectStore, cfg.GetMinioBucketAgencyLogos(), val)
	authModule := auth.NewModule(pool, cfg, val)
	clientsModule := clients.NewModule(pool, val)
	catalogModule := catalog.NewModule(pool, objectStore, cfg.GetMinioBucketCatalogPhotos(), val)

	clientReader := adapters.NewQuotationClientReader(clientsModule.Repository())
	catalogReader := adapters.NewQuotationCatalogReader(catalogModule.Repository())
	quotationsModule := quotations.NewModule(pool, val, clientReader, catalogReader, eventBus, cfg)

	// Notification module subscribes to domain events (not HTTP-facing).
	userReader := adapters.NewNotificationUserReader(identityModule.Repository())
	notificationModule := notification.NewModule(sender, userReader, log)
	if followUpScheduler != nil {
		notificationModule.SetFollowUpScheduler(followUpScheduler)
	}
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			identityModule,
			clientsModule,
			catalogModule,
			quotationsModule,
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
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg config.CacheConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; settings cache disabled")
		return nil
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func ensureBucket(ctx context.Context, log *logger.Logger, store storage.ObjectStore, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx, bucket)
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
