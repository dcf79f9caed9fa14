package crm

import (
	"context"
	"errors"
	"fmt"

	"energy_diagnostic_backend/internal/leads/repository"
	"energy_diagnostic_backend/platform/config"
	"energy_diagnostic_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LeadStore is the part of the leads repository the forwarder needs.
type LeadStore interface {
	repository.LeadReader
	repository.DeliveryTracker
}

// Forwarder handles leads.forward tasks.
type Forwarder struct {
	repo    LeadStore
	webhook *Webhook
	log     *logger.Logger
}

func NewForwarder(repo LeadStore, webhook *Webhook, log *logger.Logger) *Forwarder {
	return &Forwarder{repo: repo, webhook: webhook, log: log}
}

// ProcessTask delivers one lead. Malformed payloads and unknown leads are
// not retried; CRM failures are recorded and returned so asynq retries.
func (f *Forwarder) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadForwardPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%w: invalid lead id %q", asynq.SkipRetry, payload.LeadID)
	}

	lead, err := f.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: lead %s not found", asynq.SkipRetry, leadID)
	}
	if err != nil {
		return err
	}
	if lead.DeliveryStatus == repository.DeliveryDelivered {
		return nil
	}

	if !f.webhook.Enabled() {
		f.log.LeadEvent("forward_skipped", leadID.String(), string(lead.Result.LeadCategory))
		return f.repo.MarkSkipped(ctx, leadID)
	}

	if err := f.webhook.Send(ctx, NewLeadDocument(lead)); err != nil {
		if markErr := f.repo.MarkFailed(ctx, leadID, err.Error()); markErr != nil {
			f.log.DatabaseError("mark lead failed", markErr)
		}
		f.log.Warn("crm delivery failed", "leadId", leadID, "error", err)
		return err
	}

	if err := f.repo.MarkDelivered(ctx, leadID); err != nil {
		return err
	}
	f.log.LeadEvent("delivered", leadID.String(), string(lead.Result.LeadCategory))
	return nil
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, forwarder *Forwarder, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskLeadForward, forwarder.ProcessTask)

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run processes tasks until ctx is cancelled, then drains in-flight work.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("crm worker failed to start", "error", err)
		return err
	}
	w.log.Info("crm worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("crm worker stopped")
	return nil
}
