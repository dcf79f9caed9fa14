package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy_diagnostic_backend/internal/crm"
	leadrepo "energy_diagnostic_backend/internal/leads/repository"
	"energy_diagnostic_backend/platform/config"
	"energy_diagnostic_backend/platform/db"
	"energy_diagnostic_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := errors.Join(cfg.RequireDatabase(), cfg.RequireRedis()); err != nil {
		panic(err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	repo := leadrepo.New(pool)
	webhook := crm.NewWebhook(cfg.GetCRMWebhookURL(), cfg.GetCRMWebhookToken())
	if !webhook.Enabled() {
		log.Warn("CRM_WEBHOOK_URL not configured; leads will be marked SKIPPED")
	}

	worker, err := crm.NewWorker(cfg, crm.NewForwarder(repo, webhook, log), log)
	if err != nil {
		log.Error("failed to initialize crm worker", "error", err)
		panic("failed to initialize crm worker: " + err.Error())
	}

	client, err := crm.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize crm queue client", "error", err)
		panic("failed to initialize crm queue client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error { return crm.NewSweeper(repo, client, log).Run(gctx) })

	if err := g.Wait(); err != nil {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
