// Package diagnostic implements the savings and lead-scoring engine behind the
// energy diagnostic wizard. Everything here is pure: no I/O, no shared state
// other than the random source used for the payback jitter.
package diagnostic

import "strings"

// CompanyType is the kind of business answering the questionnaire.
type CompanyType string

const (
	CompanyIndustry CompanyType = "Industria"
	CompanyCommerce CompanyType = "Comercio"
	CompanyBuilding CompanyType = "Edificación"
)

// CompanyTypes lists the supported company types in display order.
var CompanyTypes = []CompanyType{CompanyIndustry, CompanyCommerce, CompanyBuilding}

// OptimizationLevel is how much energy optimisation the prospect already has.
type OptimizationLevel string

const (
	OptimizationNone     OptimizationLevel = "Ninguno"
	OptimizationPartial  OptimizationLevel = "Parcial"
	OptimizationAdvanced OptimizationLevel = "Avanzado"
)

// OptimizationLevels lists the supported levels from least to most optimised.
var OptimizationLevels = []OptimizationLevel{OptimizationNone, OptimizationPartial, OptimizationAdvanced}

// LeadCategory is the sales follow-up bucket derived from the score.
type LeadCategory string

const (
	LeadHot  LeadCategory = "Hot"
	LeadWarm LeadCategory = "Warm"
	LeadCold LeadCategory = "Cold"
)

// Questionnaire holds the answers collected by the wizard.
// Sector is not checked against CompanyType; the pairing is only a UI hint.
type Questionnaire struct {
	CompanyType             CompanyType       `json:"companyType" yaml:"companyType"`
	Sector                  string            `json:"sector" yaml:"sector"`
	Location                string            `json:"location" yaml:"location"`
	MonthlyConsumptionKwh   float64           `json:"monthlyConsumptionKwh" yaml:"monthlyConsumptionKwh"`
	MonthlyEnergyCost       float64           `json:"monthlyEnergyCost" yaml:"monthlyEnergyCost"`
	HasInternalMeasurement  bool              `json:"hasInternalMeasurement" yaml:"hasInternalMeasurement"`
	OptimizationLevel       OptimizationLevel `json:"optimizationLevel" yaml:"optimizationLevel"`
	HasEnergyAudit          bool              `json:"hasEnergyAudit" yaml:"hasEnergyAudit"`
	HasOwnGeneration        bool              `json:"hasOwnGeneration" yaml:"hasOwnGeneration"`
	KnowsLaw1715            bool              `json:"knowsLaw1715" yaml:"knowsLaw1715"`
	InterestedInTaxBenefits bool              `json:"interestedInTaxBenefits" yaml:"interestedInTaxBenefits"`
}

// Result is the engine output for one questionnaire.
type Result struct {
	AnnualSavings       float64      `json:"annualSavings"`
	PercentageReduction float64      `json:"percentageReduction"`
	EstimatedTaxBenefit float64      `json:"estimatedTaxBenefit"`
	EstimatedRoiMonths  float64      `json:"estimatedRoiMonths"`
	Score               int          `json:"score"`
	LeadCategory        LeadCategory `json:"leadCategory"`
}

// DefaultQuestionnaire returns the answers the wizard starts from.
func DefaultQuestionnaire() Questionnaire {
	return Questionnaire{
		CompanyType:           CompanyIndustry,
		Sector:                "Manufactura",
		MonthlyConsumptionKwh: 5000,
		MonthlyEnergyCost:     15_000_000,
		OptimizationLevel:     OptimizationNone,
	}
}

// ParseCompanyType accepts the canonical label or its English name,
// ignoring case and the accent in "Edificación".
func ParseCompanyType(s string) (CompanyType, bool) {
	switch foldAccents(strings.ToLower(strings.TrimSpace(s))) {
	case "industria", "industry":
		return CompanyIndustry, true
	case "comercio", "commerce":
		return CompanyCommerce, true
	case "edificacion", "building":
		return CompanyBuilding, true
	}
	return "", false
}

// ParseOptimizationLevel accepts the canonical label or its English name, ignoring case.
func ParseOptimizationLevel(s string) (OptimizationLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ninguno", "none":
		return OptimizationNone, true
	case "parcial", "partial":
		return OptimizationPartial, true
	case "avanzado", "advanced":
		return OptimizationAdvanced, true
	}
	return "", false
}

// Valid reports whether t is one of the supported company types.
func (t CompanyType) Valid() bool {
	_, ok := baseInefficiency[t]
	return ok
}

// Valid reports whether l is one of the supported optimisation levels.
func (l OptimizationLevel) Valid() bool {
	switch l {
	case OptimizationNone, OptimizationPartial, OptimizationAdvanced:
		return true
	}
	return false
}

func foldAccents(s string) string {
	return strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u").Replace(s)
}
