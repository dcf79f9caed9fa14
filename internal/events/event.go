// Package events defines the domain events modules publish to each other.
// The bus itself lives in platform/events.
package events

import (
	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/events"
	"energy_diagnostic_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published once a completed diagnostic has been persisted
// together with the prospect's contact details.
type LeadCaptured struct {
	BaseEvent
	LeadID         uuid.UUID                `json:"leadId"`
	SessionID      *uuid.UUID               `json:"sessionId,omitempty"`
	ContactName    string                   `json:"contactName"`
	ContactEmail   string                   `json:"contactEmail"`
	ContactPhone   string                   `json:"contactPhone"`
	SelectedAction string                   `json:"selectedAction,omitempty"`
	Questionnaire  diagnostic.Questionnaire `json:"questionnaire"`
	Result         diagnostic.Result        `json:"result"`
	Insight        string                   `json:"insight"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }
