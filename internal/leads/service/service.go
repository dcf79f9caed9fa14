package service

import (
	"context"
	"strings"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/events"
	"energy_diagnostic_backend/internal/insight"
	"energy_diagnostic_backend/internal/leads/repository"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/apperr"
	"energy_diagnostic_backend/platform/logger"
	"energy_diagnostic_backend/platform/phone"
	"energy_diagnostic_backend/platform/sanitize"
	"energy_diagnostic_backend/platform/validator"

	"github.com/google/uuid"
)

const opCapture = "leads.Capture"

// ForwardQueue schedules delivery of a captured lead to the CRM.
type ForwardQueue interface {
	EnqueueLeadForward(ctx context.Context, leadID uuid.UUID) error
}

// CaptureParams is everything needed to persist a lead.
type CaptureParams struct {
	SessionID      *uuid.UUID
	Questionnaire  diagnostic.Questionnaire
	Result         diagnostic.Result
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,email,max=320"`
	Phone          string `json:"phone" validate:"required,max=40"`
	SelectedAction string `json:"selectedAction" validate:"max=100"`
	Insight        string
}

type Service struct {
	repo     repository.LeadsRepository
	eventBus events.Bus
	queue    ForwardQueue
	insight  insight.Generator
	phone    phone.Normalizer
	val      *validator.Validator
	random   diagnostic.RandomSource
	log      *logger.Logger
}

// New creates the leads service. queue may be nil when no job queue is
// configured; gen is expected to be wrapped with insight.WithFallback.
func New(repo repository.LeadsRepository, eventBus events.Bus, queue ForwardQueue, gen insight.Generator, normalizer phone.Normalizer, val *validator.Validator, random diagnostic.RandomSource, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		queue:    queue,
		insight:  gen,
		phone:    normalizer,
		val:      val,
		random:   random,
		log:      log,
	}
}

// Diagnose runs the engine for a questionnaire.
func (s *Service) Diagnose(q diagnostic.Questionnaire) diagnostic.Result {
	return diagnostic.Compute(q, s.random)
}

// Calculate exposes Diagnose as a wizard.Calculator.
func (s *Service) Calculate(q diagnostic.Questionnaire) diagnostic.Result {
	return s.Diagnose(q)
}

// Insight returns advisory text for the questionnaire. A nil result is computed first.
func (s *Service) Insight(ctx context.Context, q diagnostic.Questionnaire, r *diagnostic.Result) (string, error) {
	if r == nil {
		computed := s.Diagnose(q)
		r = &computed
	}
	return s.insight.Generate(ctx, q, *r)
}

// Capture validates and stores a lead, then announces it and schedules CRM delivery.
func (s *Service) Capture(ctx context.Context, params CaptureParams) (repository.Lead, error) {
	params.Name = sanitize.Text(params.Name)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Phone = strings.TrimSpace(params.Phone)
	params.SelectedAction = sanitize.Text(params.SelectedAction)

	if err := s.val.Struct(params); err != nil {
		return repository.Lead{}, apperr.Validation("contact details are invalid").
			WithDetails(validator.FieldErrors(err)).WithOp(opCapture)
	}

	if strings.TrimSpace(params.Insight) == "" {
		text, err := s.insight.Generate(ctx, params.Questionnaire, params.Result)
		if err != nil {
			s.log.WithContext(ctx).Warn("insight unavailable during capture", "error", err)
		}
		params.Insight = text
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		SessionID:      params.SessionID,
		Questionnaire:  params.Questionnaire,
		Result:         params.Result,
		ContactName:    params.Name,
		ContactEmail:   params.Email,
		ContactPhone:   s.phone.NormalizeE164(params.Phone),
		SelectedAction: params.SelectedAction,
		Insight:        params.Insight,
	})
	if err != nil {
		s.log.DatabaseError("create lead", err)
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "could not store lead", err).WithOp(opCapture)
	}

	s.log.WithContext(ctx).LeadEvent("captured", lead.ID.String(), string(lead.Result.LeadCategory))

	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		SessionID:      lead.SessionID,
		ContactName:    lead.ContactName,
		ContactEmail:   lead.ContactEmail,
		ContactPhone:   lead.ContactPhone,
		SelectedAction: lead.SelectedAction,
		Questionnaire:  lead.Questionnaire,
		Result:         lead.Result,
		Insight:        lead.Insight,
	})

	if s.queue != nil {
		if err := s.queue.EnqueueLeadForward(ctx, lead.ID); err != nil {
			s.log.WithContext(ctx).Error("failed to enqueue lead forwarding", "leadId", lead.ID, "error", err)
		}
	}

	return lead, nil
}

// CaptureFromSession implements wizard.LeadCapturer.
func (s *Service) CaptureFromSession(ctx context.Context, session wizard.Session) (wizard.CapturedLead, error) {
	if session.Result == nil || session.Contact == nil {
		return wizard.CapturedLead{}, apperr.Conflict("session has no result or contact details").WithOp(opCapture)
	}
	sessionID := session.ID
	lead, err := s.Capture(ctx, CaptureParams{
		SessionID:      &sessionID,
		Questionnaire:  session.Answers,
		Result:         *session.Result,
		Name:           session.Contact.Name,
		Email:          session.Contact.Email,
		Phone:          session.Contact.Phone,
		SelectedAction: session.SelectedAction,
		Insight:        session.Insight,
	})
	if err != nil {
		return wizard.CapturedLead{}, err
	}
	return wizard.CapturedLead{ID: lead.ID, Insight: lead.Insight}, nil
}

var _ wizard.LeadCapturer = (*Service)(nil)
