package transport

import (
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Request DTOs
type QuestionnaireRequest struct {
	CompanyType             diagnostic.CompanyType       `json:"companyType" validate:"required,company_type"`
	Sector                  string                       `json:"sector" validate:"required,max=100"`
	Location                string                       `json:"location" validate:"required,max=200"`
	MonthlyConsumptionKwh   float64                      `json:"monthlyConsumptionKwh" validate:"gte=0"`
	MonthlyEnergyCost       float64                      `json:"monthlyEnergyCost" validate:"gte=0"`
	HasInternalMeasurement  bool                         `json:"hasInternalMeasurement"`
	OptimizationLevel       diagnostic.OptimizationLevel `json:"optimizationLevel" validate:"required,optimization_level"`
	HasEnergyAudit          bool                         `json:"hasEnergyAudit"`
	HasOwnGeneration        bool                         `json:"hasOwnGeneration"`
	KnowsLaw1715            bool                         `json:"knowsLaw1715"`
	InterestedInTaxBenefits bool                         `json:"interestedInTaxBenefits"`
}

func (r QuestionnaireRequest) ToDomain() diagnostic.Questionnaire {
	return diagnostic.Questionnaire{
		CompanyType:             r.CompanyType,
		Sector:                  sanitize.Text(r.Sector),
		Location:                sanitize.Text(r.Location),
		MonthlyConsumptionKwh:   r.MonthlyConsumptionKwh,
		MonthlyEnergyCost:       r.MonthlyEnergyCost,
		HasInternalMeasurement:  r.HasInternalMeasurement,
		OptimizationLevel:       r.OptimizationLevel,
		HasEnergyAudit:          r.HasEnergyAudit,
		HasOwnGeneration:        r.HasOwnGeneration,
		KnowsLaw1715:            r.KnowsLaw1715,
		InterestedInTaxBenefits: r.InterestedInTaxBenefits,
	}
}

type InsightRequest struct {
	Questionnaire QuestionnaireRequest `json:"questionnaire" validate:"required"`
	// Result is recomputed when omitted.
	Result *diagnostic.Result `json:"result,omitempty" validate:"-"`
}

type AnswersRequest struct {
	Company      *CompanyAnswers      `json:"company,omitempty"`
	Consumption  *ConsumptionAnswers  `json:"consumption,omitempty"`
	Optimization *OptimizationAnswers `json:"optimization,omitempty"`
	Incentives   *IncentiveAnswers    `json:"incentives,omitempty"`
}

type CompanyAnswers struct {
	CompanyType *diagnostic.CompanyType `json:"companyType" validate:"omitempty,company_type"`
	Sector      *string                 `json:"sector" validate:"omitempty,max=100"`
	Location    *string                 `json:"location" validate:"omitempty,max=200"`
}

type ConsumptionAnswers struct {
	MonthlyConsumptionKwh  *float64 `json:"monthlyConsumptionKwh" validate:"omitempty,gte=0"`
	MonthlyEnergyCost      *float64 `json:"monthlyEnergyCost" validate:"omitempty,gte=0"`
	HasInternalMeasurement *bool    `json:"hasInternalMeasurement"`
}

type OptimizationAnswers struct {
	OptimizationLevel *diagnostic.OptimizationLevel `json:"optimizationLevel" validate:"omitempty,optimization_level"`
	HasEnergyAudit    *bool                         `json:"hasEnergyAudit"`
	HasOwnGeneration  *bool                         `json:"hasOwnGeneration"`
}

type IncentiveAnswers struct {
	KnowsLaw1715            *bool `json:"knowsLaw1715"`
	InterestedInTaxBenefits *bool `json:"interestedInTaxBenefits"`
}

func (r AnswersRequest) ToDomain() wizard.Answers {
	var a wizard.Answers
	if c := r.Company; c != nil {
		a.Company = &wizard.CompanyAnswers{CompanyType: c.CompanyType, Sector: sanitize.TextPtr(c.Sector), Location: sanitize.TextPtr(c.Location)}
	}
	if c := r.Consumption; c != nil {
		a.Consumption = &wizard.ConsumptionAnswers{
			MonthlyConsumptionKwh:  c.MonthlyConsumptionKwh,
			MonthlyEnergyCost:      c.MonthlyEnergyCost,
			HasInternalMeasurement: c.HasInternalMeasurement,
		}
	}
	if o := r.Optimization; o != nil {
		a.Optimization = &wizard.OptimizationAnswers{
			OptimizationLevel: o.OptimizationLevel,
			HasEnergyAudit:    o.HasEnergyAudit,
			HasOwnGeneration:  o.HasOwnGeneration,
		}
	}
	if i := r.Incentives; i != nil {
		a.Incentives = &wizard.IncentiveAnswers{KnowsLaw1715: i.KnowsLaw1715, InterestedInTaxBenefits: i.InterestedInTaxBenefits}
	}
	return a
}

type ActionRequest struct {
	Action string `json:"action" validate:"required,max=100"`
}

type ContactRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
	Phone string `json:"phone" validate:"required,min=5,max=40"`
}

func (r ContactRequest) ToDomain() wizard.Contact {
	return wizard.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// Response DTOs
type ChartBarResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type DiagnosticResponse struct {
	Result diagnostic.Result  `json:"result"`
	Chart  []ChartBarResponse `json:"chart"`
}

type InsightResponse struct {
	Insight string `json:"insight"`
}

type SectorCatalogResponse struct {
	CompanyTypes       []diagnostic.CompanyType       `json:"companyTypes"`
	OptimizationLevels []diagnostic.OptimizationLevel `json:"optimizationLevels"`
	Sectors            map[string][]string            `json:"sectors"`
	Defaults           diagnostic.Questionnaire       `json:"defaults"`
}

type SessionResponse struct {
	ID             uuid.UUID                `json:"id"`
	Stage          string                   `json:"stage"`
	Step           int                      `json:"step"`
	Answers        diagnostic.Questionnaire `json:"answers"`
	Issues         map[string]string        `json:"issues,omitempty"`
	Result         *DiagnosticResponse      `json:"result,omitempty"`
	Insight        string                   `json:"insight,omitempty"`
	SelectedAction string                   `json:"selectedAction,omitempty"`
	LeadID         *uuid.UUID               `json:"leadId,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

type CaptureResponse struct {
	LeadID       uuid.UUID               `json:"leadId"`
	LeadCategory diagnostic.LeadCategory `json:"leadCategory"`
	Insight      string                  `json:"insight"`
}

func ToDiagnosticResponse(q diagnostic.Questionnaire, r diagnostic.Result) DiagnosticResponse {
	bars := diagnostic.ChartData(q, r)
	chart := make([]ChartBarResponse, 0, len(bars))
	for _, b := range bars {
		chart = append(chart, ChartBarResponse{Name: b.Name, Value: b.Value})
	}
	return DiagnosticResponse{Result: r, Chart: chart}
}

func ToSessionResponse(s wizard.Session) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		Stage:          s.Stage.String(),
		Step:           int(s.Stage),
		Answers:        s.Answers,
		Insight:        s.Insight,
		SelectedAction: s.SelectedAction,
		LeadID:         s.LeadID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if issues := s.Issues(); len(issues) > 0 {
		resp.Issues = issues
	}
	if s.Result != nil {
		d := ToDiagnosticResponse(s.Answers, *s.Result)
		resp.Result = &d
	}
	return resp
}
