package crm

import (
	"context"
	"time"

	"energy_diagnostic_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepAge      = 10 * time.Minute
	sweepBatchSize       = 100
)

// PendingLister finds leads whose forwarding task was never enqueued.
type PendingLister interface {
	ListPendingDelivery(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

// Enqueuer schedules lead forwarding.
type Enqueuer interface {
	EnqueueLeadForward(ctx context.Context, leadID uuid.UUID) error
}

// Sweeper re-enqueues leads left in RECEIVED, e.g. when Redis was
// unavailable at capture time.
type Sweeper struct {
	leads    PendingLister
	queue    Enqueuer
	interval time.Duration
	age      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewSweeper(leads PendingLister, queue Enqueuer, log *logger.Logger) *Sweeper {
	return &Sweeper{
		leads:    leads,
		queue:    queue,
		interval: defaultSweepInterval,
		age:      defaultSweepAge,
		now:      time.Now,
		log:      log,
	}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if n, err := s.Sweep(ctx); err != nil {
			s.log.Error("lead forward sweep failed", "error", err)
		} else if n > 0 {
			s.log.Info("re-enqueued pending leads", "count", n)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep enqueues one batch of pending leads and reports how many were enqueued.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ids, err := s.leads.ListPendingDelivery(ctx, s.now().Add(-s.age), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, id := range ids {
		if err := s.queue.EnqueueLeadForward(ctx, id); err != nil {
			s.log.Warn("failed to re-enqueue lead", "lead_id", id, "error", err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
