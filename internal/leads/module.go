// Package leads provides the diagnostic and lead-capture module.
// This file defines the module that encapsulates setup and route registration.
package leads

import (
	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/events"
	apphttp "energy_diagnostic_backend/internal/http"
	"energy_diagnostic_backend/internal/insight"
	"energy_diagnostic_backend/internal/leads/handler"
	"energy_diagnostic_backend/internal/leads/repository"
	"energy_diagnostic_backend/internal/leads/service"
	"energy_diagnostic_backend/internal/leads/transport"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/logger"
	"energy_diagnostic_backend/platform/phone"
	"energy_diagnostic_backend/platform/validator"
)

// Dependencies are the collaborators the module needs from the composition root.
type Dependencies struct {
	Repo         repository.LeadsRepository
	EventBus     events.Bus
	Queue        service.ForwardQueue
	Insight      insight.Generator
	SessionStore wizard.Store
	Phone        phone.Normalizer
	Validator    *validator.Validator
	Random       diagnostic.RandomSource
	Logger       *logger.Logger
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(deps Dependencies) (*Module, error) {
	if err := transport.RegisterValidators(deps.Validator); err != nil {
		return nil, err
	}

	svc := service.New(deps.Repo, deps.EventBus, deps.Queue, deps.Insight, deps.Phone, deps.Validator, deps.Random, deps.Logger)
	wiz := wizard.NewService(deps.SessionStore, svc.Calculate, deps.Insight, svc, deps.Logger)

	return &Module{handler: handler.New(svc, wiz, deps.Validator)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the diagnostic and wizard routes on the public group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
