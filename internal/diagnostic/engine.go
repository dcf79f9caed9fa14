package diagnostic

import "math"

// Scoring points. The score has no upper bound.
const (
	pointsIndustry        = 25
	pointsHighConsumption = 20
	pointsTaxInterest     = 30
	pointsNoAudit         = 15
	pointsNoOptimization  = 10

	highConsumptionKwh = 10_000

	hotThreshold  = 60 // score > 60
	warmThreshold = 30 // 30 < score <= 60
)

// Savings model coefficients.
const (
	defaultInefficiency = 0.15

	partialOptimizationFactor  = 0.7
	advancedOptimizationFactor = 0.4
	auditFactor                = 0.9

	// Capital outlay sized to a 2.5 year simple payback.
	investmentToSavingsRatio = 2.5
	// Flat combined incentive rate (Ley 1715 deduction, VAT exclusion, accelerated depreciation).
	taxBenefitRate = 0.40

	minRoiMonths    = 24
	roiJitterMonths = 12
)

var baseInefficiency = map[CompanyType]float64{
	CompanyIndustry: 0.22,
	CompanyCommerce: 0.18,
	CompanyBuilding: 0.15,
}

// Compute scores q and estimates its savings. It never fails; zero or
// negative costs are not rejected and simply flow through the arithmetic.
// rnd drives the payback jitter; nil uses DefaultSource.
func Compute(q Questionnaire, rnd RandomSource) Result {
	if rnd == nil {
		rnd = DefaultSource
	}

	score := ScoreLead(q)
	factor := InefficiencyFactor(q)

	annualSavings := AnnualCost(q) * factor
	investment := annualSavings * investmentToSavingsRatio

	return Result{
		AnnualSavings:       annualSavings,
		PercentageReduction: factor * 100,
		EstimatedTaxBenefit: investment * taxBenefitRate,
		EstimatedRoiMonths:  minRoiMonths + unitInterval(rnd.Float64())*roiJitterMonths,
		Score:               score,
		LeadCategory:        Categorize(score),
	}
}

// ScoreLead sums the qualification points for q.
func ScoreLead(q Questionnaire) int {
	score := 0
	if q.CompanyType == CompanyIndustry {
		score += pointsIndustry
	}
	if q.MonthlyConsumptionKwh > highConsumptionKwh {
		score += pointsHighConsumption
	}
	if q.InterestedInTaxBenefits || q.KnowsLaw1715 {
		score += pointsTaxInterest
	}
	if !q.HasEnergyAudit {
		score += pointsNoAudit
	}
	if q.OptimizationLevel == OptimizationNone {
		score += pointsNoOptimization
	}
	return score
}

// Categorize buckets a score. Both thresholds are exclusive lower bounds.
func Categorize(score int) LeadCategory {
	switch {
	case score > hotThreshold:
		return LeadHot
	case score > warmThreshold:
		return LeadWarm
	default:
		return LeadCold
	}
}

// InefficiencyFactor is the fraction of the current energy bill assumed recoverable.
func InefficiencyFactor(q Questionnaire) float64 {
	factor, ok := baseInefficiency[q.CompanyType]
	if !ok {
		factor = defaultInefficiency
	}

	switch q.OptimizationLevel {
	case OptimizationPartial:
		factor *= partialOptimizationFactor
	case OptimizationAdvanced:
		factor *= advancedOptimizationFactor
	}

	if q.HasEnergyAudit {
		factor *= auditFactor
	}
	return factor
}

// AnnualCost is the yearly energy bill implied by the monthly cost.
func AnnualCost(q Questionnaire) float64 {
	return q.MonthlyEnergyCost * 12
}

// ChartBar is one bar of the results dashboard comparison.
type ChartBar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartData returns the current annual cost next to the cost after optimisation.
func ChartData(q Questionnaire, r Result) []ChartBar {
	annual := AnnualCost(q)
	return []ChartBar{
		{Name: "Actual", Value: annual},
		{Name: "Con Optimización", Value: annual - r.AnnualSavings},
	}
}

func unitInterval(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v >= 1 {
		return 0
	}
	return v
}
