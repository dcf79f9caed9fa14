package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy_diagnostic_backend/internal/archive"
	"energy_diagnostic_backend/internal/crm"
	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/email"
	"energy_diagnostic_backend/internal/events"
	apphttp "energy_diagnostic_backend/internal/http"
	"energy_diagnostic_backend/internal/http/router"
	"energy_diagnostic_backend/internal/insight"
	"energy_diagnostic_backend/internal/leads"
	leadrepo "energy_diagnostic_backend/internal/leads/repository"
	leadservice "energy_diagnostic_backend/internal/leads/service"
	"energy_diagnostic_backend/internal/notification"
	"energy_diagnostic_backend/internal/pdf"
	"energy_diagnostic_backend/internal/whatsapp"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/config"
	"energy_diagnostic_backend/platform/db"
	"energy_diagnostic_backend/platform/logger"
	"energy_diagnostic_backend/platform/phone"
	"energy_diagnostic_backend/platform/redisx"
	"energy_diagnostic_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.RequireDatabase(); err != nil {
		panic(err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	redisClient := initRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var sessions wizard.Store
	if redisClient != nil {
		sessions = wizard.NewRedisStore(redisClient, cfg.GetWizardSessionTTL())
	} else {
		log.Warn("REDIS_URL not configured; wizard sessions are kept in memory")
		sessions = wizard.NewMemoryStore(cfg.GetWizardSessionTTL())
	}

	var forwardQueue leadservice.ForwardQueue
	if crmClient, closeCRM := initCRMClient(cfg, log); crmClient != nil {
		defer closeCRM()
		forwardQueue = crmClient
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	insightGen := insight.New(ctx, cfg, log)
	phoneNormalizer := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(email.NewSender(cfg), initArchive(ctx, cfg, log), cfg.GetSalesAlertEmail(), log)
	if reports := pdf.NewFromConfig(cfg); reports != nil {
		notificationModule.SetReportRenderer(reports)
		log.Info("gotenberg PDF reports enabled", "url", cfg.GetGotenbergURL())
	}
	if wa := whatsapp.NewClient(cfg, phoneNormalizer, log); wa != nil {
		notificationModule.SetWhatsAppSender(wa, cfg.GetSalesAlertWhatsApp())
	}
	notificationModule.RegisterHandlers(eventBus)

	leadsModule, err := leads.NewModule(leads.Dependencies{
		Repo:         leadrepo.New(pool),
		EventBus:     eventBus,
		Queue:        forwardQueue,
		Insight:      insightGen,
		SessionStore: sessions,
		Phone:        phoneNormalizer,
		Validator:    val,
		Random:       diagnostic.DefaultSource,
		Logger:       log,
	})
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

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
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		return nil
	}

	var client *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		c, err := redisx.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established")
	return client
}

func initCRMClient(cfg config.SchedulerConfig, log *logger.Logger) (*crm.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; CRM forwarding disabled")
		return nil, nil
	}

	client, err := crm.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize CRM queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// initArchive returns nil when MinIO is not configured so dossiers are skipped.
func initArchive(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) notification.DossierArchive {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; dossier archive disabled")
		return nil
	}

	store, err := archive.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	dossiers := archive.New(store, cfg.GetMinioBucketDossiers())
	if err := withRetry(ctx, log, "ensure dossiers bucket", 5, 2*time.Second, func() error {
		return dossiers.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketDossiers())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "dossiersBucket", cfg.GetMinioBucketDossiers())
	return dossiers
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
