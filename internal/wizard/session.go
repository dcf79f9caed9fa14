package wizard

import (
	"strings"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/apperr"

	"github.com/google/uuid"
)

const minLocationLength = 3

// Calculator turns a finished questionnaire into a result.
type Calculator func(q diagnostic.Questionnaire) diagnostic.Result

// Contact is what the prospect hands over to unlock the personalised insight.
type Contact struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
	Phone string `json:"phone" validate:"required,max=40"`
}

// Session is the state of one prospect walking through the wizard.
type Session struct {
	ID             uuid.UUID                `json:"id"`
	Stage          Stage                    `json:"stage"`
	Answers        diagnostic.Questionnaire `json:"answers"`
	Result         *diagnostic.Result       `json:"result,omitempty"`
	SelectedAction string                   `json:"selectedAction,omitempty"`
	Insight        string                   `json:"insight,omitempty"`
	Contact        *Contact                 `json:"contact,omitempty"`
	LeadID         *uuid.UUID               `json:"leadId,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// NewSession starts a session on the landing stage with the default answers.
func NewSession(id uuid.UUID, now time.Time) Session {
	return Session{
		ID:        id,
		Stage:     StageLanding,
		Answers:   diagnostic.DefaultQuestionnaire(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompanyAnswers are collected on the company stage.
type CompanyAnswers struct {
	CompanyType *diagnostic.CompanyType `json:"companyType"`
	Sector      *string                 `json:"sector"`
	Location    *string                 `json:"location"`
}

// ConsumptionAnswers are collected on the consumption stage.
type ConsumptionAnswers struct {
	MonthlyConsumptionKwh  *float64 `json:"monthlyConsumptionKwh"`
	MonthlyEnergyCost      *float64 `json:"monthlyEnergyCost"`
	HasInternalMeasurement *bool    `json:"hasInternalMeasurement"`
}

// OptimizationAnswers are collected on the optimization stage.
type OptimizationAnswers struct {
	OptimizationLevel *diagnostic.OptimizationLevel `json:"optimizationLevel"`
	HasEnergyAudit    *bool                         `json:"hasEnergyAudit"`
	HasOwnGeneration  *bool                         `json:"hasOwnGeneration"`
}

// IncentiveAnswers are collected on the incentives stage.
type IncentiveAnswers struct {
	KnowsLaw1715            *bool `json:"knowsLaw1715"`
	InterestedInTaxBenefits *bool `json:"interestedInTaxBenefits"`
}

// Answers is a partial update. Only the section matching the current stage may be set.
type Answers struct {
	Company      *CompanyAnswers      `json:"company,omitempty"`
	Consumption  *ConsumptionAnswers  `json:"consumption,omitempty"`
	Optimization *OptimizationAnswers `json:"optimization,omitempty"`
	Incentives   *IncentiveAnswers    `json:"incentives,omitempty"`
}

func (a Answers) sections() map[Stage]bool {
	return map[Stage]bool{
		StageCompany:      a.Company != nil,
		StageConsumption:  a.Consumption != nil,
		StageOptimization: a.Optimization != nil,
		StageIncentives:   a.Incentives != nil,
	}
}

// Apply merges answers for the current stage into the session.
func (s *Session) Apply(a Answers) error {
	if !s.Stage.IsQuestionnaire() {
		return apperr.Conflict("answers can only be changed during the questionnaire").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	}
	for stage, set := range a.sections() {
		if set && stage != s.Stage {
			return apperr.Conflict("answers do not belong to the current stage").
				WithDetails(map[string]string{"stage": s.Stage.String(), "section": stage.String()})
		}
	}

	q := &s.Answers
	switch s.Stage {
	case StageCompany:
		if c := a.Company; c != nil {
			if c.CompanyType != nil && *c.CompanyType != q.CompanyType {
				q.CompanyType = *c.CompanyType
				// Switching type without naming a sector selects the type's first sector.
				if c.Sector == nil {
					if sectors := diagnostic.SectorsFor(q.CompanyType); len(sectors) > 0 {
						q.Sector = sectors[0]
					}
				}
			}
			if c.Sector != nil {
				q.Sector = strings.TrimSpace(*c.Sector)
			}
			if c.Location != nil {
				q.Location = strings.TrimSpace(*c.Location)
			}
		}
	case StageConsumption:
		if c := a.Consumption; c != nil {
			if c.MonthlyConsumptionKwh != nil {
				q.MonthlyConsumptionKwh = *c.MonthlyConsumptionKwh
			}
			if c.MonthlyEnergyCost != nil {
				q.MonthlyEnergyCost = *c.MonthlyEnergyCost
			}
			if c.HasInternalMeasurement != nil {
				q.HasInternalMeasurement = *c.HasInternalMeasurement
			}
		}
	case StageOptimization:
		if o := a.Optimization; o != nil {
			if o.OptimizationLevel != nil {
				q.OptimizationLevel = *o.OptimizationLevel
			}
			if o.HasEnergyAudit != nil {
				q.HasEnergyAudit = *o.HasEnergyAudit
			}
			if o.HasOwnGeneration != nil {
				q.HasOwnGeneration = *o.HasOwnGeneration
			}
		}
	case StageIncentives:
		if i := a.Incentives; i != nil {
			if i.KnowsLaw1715 != nil {
				q.KnowsLaw1715 = *i.KnowsLaw1715
			}
			if i.InterestedInTaxBenefits != nil {
				q.InterestedInTaxBenefits = *i.InterestedInTaxBenefits
			}
		}
	}
	return nil
}

// Issues lists the fields that keep the current stage from advancing.
func (s *Session) Issues() map[string]string {
	issues := map[string]string{}
	q := s.Answers
	switch s.Stage {
	case StageCompany:
		if !q.CompanyType.Valid() {
			issues["companyType"] = "required"
		}
		if strings.TrimSpace(q.Sector) == "" {
			issues["sector"] = "required"
		}
		if len([]rune(strings.TrimSpace(q.Location))) < minLocationLength {
			issues["location"] = "min=3"
		}
	case StageConsumption:
		if !(q.MonthlyConsumptionKwh > 0) {
			issues["monthlyConsumptionKwh"] = "gt=0"
		}
		if !(q.MonthlyEnergyCost > 0) {
			issues["monthlyEnergyCost"] = "gt=0"
		}
	case StageOptimization:
		if !q.OptimizationLevel.Valid() {
			issues["optimizationLevel"] = "oneof=Ninguno Parcial Avanzado"
		}
	}
	return issues
}

// Next validates the current stage and advances. Leaving the incentives
// stage computes the result with calc.
func (s *Session) Next(calc Calculator) error {
	switch s.Stage {
	case StageLanding, StageCompany, StageConsumption, StageOptimization:
		if issues := s.Issues(); len(issues) > 0 {
			return apperr.Validation("current step is incomplete").WithDetails(issues)
		}
		s.Stage++
	case StageIncentives:
		result := calc(s.Answers)
		s.Result = &result
		s.Stage = StageResults
	default:
		return apperr.Conflict("use the result actions to continue").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	}
	return nil
}

// Back returns to the previous stage. Leaving the results discards them so
// they are recomputed from the edited answers.
func (s *Session) Back() error {
	switch s.Stage {
	case StageLanding, StageCompleted:
		return apperr.Conflict("cannot go back from this stage").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	case StageResults:
		s.Result = nil
		s.SelectedAction = ""
		s.Insight = ""
	}
	s.Stage--
	return nil
}

// SelectAction records the results call-to-action and opens the contact form.
func (s *Session) SelectAction(label string) error {
	if s.Stage != StageResults {
		return apperr.Conflict("no results to act on yet").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return apperr.Validation("action is required").WithDetails(map[string]string{"action": "required"})
	}
	s.SelectedAction = label
	s.Stage = StageContact
	return nil
}

// Complete stores the contact details and closes the wizard.
func (s *Session) Complete(c Contact) error {
	if s.Stage != StageContact {
		return apperr.Conflict("contact details are not expected at this stage").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)

	issues := map[string]string{}
	if c.Name == "" {
		issues["name"] = "required"
	}
	if c.Email == "" {
		issues["email"] = "required"
	}
	if c.Phone == "" {
		issues["phone"] = "required"
	}
	if len(issues) > 0 {
		return apperr.Validation("contact details are incomplete").WithDetails(issues)
	}

	s.Contact = &c
	s.Stage = StageCompleted
	return nil
}

// SetInsight caches the advisory text for the current result.
func (s *Session) SetInsight(text string) error {
	if s.Result == nil {
		return apperr.Conflict("no results to describe yet").
			WithDetails(map[string]string{"stage": s.Stage.String()})
	}
	s.Insight = text
	return nil
}

// reopenContact undoes Complete when the lead could not be captured.
func (s *Session) reopenContact() {
	s.Contact = nil
	s.LeadID = nil
	s.Stage = StageContact
}
