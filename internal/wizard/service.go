package wizard

import (
	"context"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/insight"
	"energy_diagnostic_backend/platform/apperr"
	"energy_diagnostic_backend/platform/logger"

	"github.com/google/uuid"
)

// CapturedLead identifies the lead stored for a completed session.
type CapturedLead struct {
	ID      uuid.UUID
	Insight string
}

// LeadCapturer persists the lead produced by a completed session.
type LeadCapturer interface {
	CaptureFromSession(ctx context.Context, s Session) (CapturedLead, error)
}

// Service runs wizard transitions against a Store.
type Service struct {
	store   Store
	calc    Calculator
	insight insight.Generator
	leads   LeadCapturer
	log     *logger.Logger
	now     func() time.Time
}

// NewService wires the wizard. A nil calc computes with the process-wide
// random source; gen is expected to be wrapped with insight.WithFallback.
func NewService(store Store, calc Calculator, gen insight.Generator, leads LeadCapturer, log *logger.Logger) *Service {
	if calc == nil {
		calc = func(q diagnostic.Questionnaire) diagnostic.Result {
			return diagnostic.Compute(q, nil)
		}
	}
	return &Service{
		store:   store,
		calc:    calc,
		insight: gen,
		leads:   leads,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new session and moves it past the landing screen.
func (s *Service) Start(ctx context.Context) (Session, error) {
	session := NewSession(uuid.New(), s.now())
	if err := session.Next(s.calc); err != nil {
		return Session{}, err
	}
	if err := s.store.Create(ctx, session); err != nil {
		return Session{}, err
	}
	s.log.WithContext(ctx).Info("wizard session started", "session_id", session.ID.String())
	return session, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Apply(ctx context.Context, id uuid.UUID, answers Answers) (Session, error) {
	return s.update(ctx, id, func(session *Session) error {
		return session.Apply(answers)
	})
}

func (s *Service) Next(ctx context.Context, id uuid.UUID) (Session, error) {
	return s.update(ctx, id, func(session *Session) error {
		return session.Next(s.calc)
	})
}

func (s *Service) Back(ctx context.Context, id uuid.UUID) (Session, error) {
	return s.update(ctx, id, func(session *Session) error {
		return session.Back()
	})
}

func (s *Service) SelectAction(ctx context.Context, id uuid.UUID, label string) (Session, error) {
	return s.update(ctx, id, func(session *Session) error {
		return session.SelectAction(label)
	})
}

// Insight returns the advisory text for the session's result, generating and
// caching it on first use.
func (s *Service) Insight(ctx context.Context, id uuid.UUID) (string, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if session.Result == nil {
		return "", apperr.Conflict("no results to describe yet").
			WithDetails(map[string]string{"stage": session.Stage.String()})
	}
	if session.Insight != "" {
		return session.Insight, nil
	}

	text, err := s.insight.Generate(ctx, session.Answers, *session.Result)
	if err != nil {
		return "", err
	}

	result := *session.Result
	_, err = s.update(ctx, id, func(current *Session) error {
		// Answers may have changed while the text was generated.
		if current.Result == nil || *current.Result != result {
			return nil
		}
		return current.SetInsight(text)
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Complete closes the session and captures the lead. The transition is
// committed first so concurrent submissions cannot capture twice; a failed
// capture reopens the contact stage.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, contact Contact) (Session, error) {
	session, err := s.update(ctx, id, func(session *Session) error {
		return session.Complete(contact)
	})
	if err != nil {
		return Session{}, err
	}

	lead, err := s.leads.CaptureFromSession(ctx, session)
	if err != nil {
		if _, rerr := s.update(ctx, id, func(session *Session) error {
			session.reopenContact()
			return nil
		}); rerr != nil {
			s.log.WithContext(ctx).Error("failed to reopen wizard session", "session_id", id.String(), "error", rerr)
		}
		return Session{}, err
	}

	return s.update(ctx, id, func(session *Session) error {
		session.LeadID = &lead.ID
		if session.Insight == "" {
			session.Insight = lead.Insight
		}
		return nil
	})
}

func (s *Service) update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	return s.store.Update(ctx, id, func(session *Session) error {
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now()
		return nil
	})
}
