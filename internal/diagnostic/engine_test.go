package diagnostic

import (
	"math"
	"sync"
	"testing"
)

const tolerance = 1e-6

func approxEqual(a, b float64) bool {
	if b == 0 {
		return math.Abs(a) < tolerance
	}
	return math.Abs(a-b)/math.Abs(b) < tolerance
}

func hotQuestionnaire() Questionnaire {
	return Questionnaire{
		CompanyType:             CompanyIndustry,
		Sector:                  "Manufactura",
		Location:                "Medellín",
		MonthlyConsumptionKwh:   25_000,
		MonthlyEnergyCost:       15_000_000,
		OptimizationLevel:       OptimizationNone,
		HasEnergyAudit:          false,
		InterestedInTaxBenefits: true,
	}
}

func TestScoreAllBonuses(t *testing.T) {
	variants := []Questionnaire{hotQuestionnaire(), hotQuestionnaire(), hotQuestionnaire()}
	variants[1].InterestedInTaxBenefits, variants[1].KnowsLaw1715 = false, true
	variants[2].KnowsLaw1715 = true

	for i, q := range variants {
		r := Compute(q, FixedSource(0))
		if r.Score != 100 {
			t.Fatalf("variant %d: expected score 100, got %d", i, r.Score)
		}
		if r.LeadCategory != LeadHot {
			t.Fatalf("variant %d: expected Hot, got %s", i, r.LeadCategory)
		}
	}
}

func TestScoreNoBonuses(t *testing.T) {
	for _, ct := range []CompanyType{CompanyCommerce, CompanyBuilding, "Agro"} {
		for _, lvl := range []OptimizationLevel{OptimizationPartial, OptimizationAdvanced} {
			q := Questionnaire{
				CompanyType:           ct,
				Sector:                "Otro",
				MonthlyConsumptionKwh: 10_000,
				MonthlyEnergyCost:     1_000_000,
				OptimizationLevel:     lvl,
				HasEnergyAudit:        true,
			}
			r := Compute(q, FixedSource(0))
			if r.Score != 0 || r.LeadCategory != LeadCold {
				t.Fatalf("%s/%s: expected 0/Cold, got %d/%s", ct, lvl, r.Score, r.LeadCategory)
			}
		}
	}
}

func TestCategoryBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  LeadCategory
	}{
		{0, LeadCold},
		{30, LeadCold},
		{31, LeadWarm},
		{60, LeadWarm},
		{61, LeadHot},
		{100, LeadHot},
		{250, LeadHot},
	}
	for _, tc := range cases {
		if got := Categorize(tc.score); got != tc.want {
			t.Fatalf("Categorize(%d): expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestScoreExampleCombinations(t *testing.T) {
	cases := []struct {
		name string
		q    Questionnaire
		want int
	}{
		// 25 + 15 = 40
		{"industry with audit missing", Questionnaire{CompanyType: CompanyIndustry, OptimizationLevel: OptimizationPartial}, 40},
		// 30 + 15 + 10 = 55
		{"commerce tax interest", Questionnaire{CompanyType: CompanyCommerce, OptimizationLevel: OptimizationNone, KnowsLaw1715: true}, 55},
		// 20 + 30 + 10 = 60
		{"building high usage audited", Questionnaire{CompanyType: CompanyBuilding, MonthlyConsumptionKwh: 10_001, OptimizationLevel: OptimizationNone, HasEnergyAudit: true, InterestedInTaxBenefits: true}, 60},
		// 25 + 20 + 15 + 10 = 70
		{"industry no tax interest", Questionnaire{CompanyType: CompanyIndustry, MonthlyConsumptionKwh: 50_000, OptimizationLevel: OptimizationNone}, 70},
	}
	for _, tc := range cases {
		if got := ScoreLead(tc.q); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestOptimizationMonotonicallyReducesSavings(t *testing.T) {
	for _, ct := range CompanyTypes {
		for _, audit := range []bool{false, true} {
			prevSavings := math.Inf(1)
			prevPct := math.Inf(1)
			for _, lvl := range OptimizationLevels {
				q := Questionnaire{CompanyType: ct, OptimizationLevel: lvl, HasEnergyAudit: audit, MonthlyEnergyCost: 2_000_000}
				r := Compute(q, FixedSource(0))
				if !(r.AnnualSavings < prevSavings) || !(r.PercentageReduction < prevPct) {
					t.Fatalf("%s audit=%v %s: savings not strictly decreasing (%f >= %f)", ct, audit, lvl, r.AnnualSavings, prevSavings)
				}
				prevSavings, prevPct = r.AnnualSavings, r.PercentageReduction
			}
		}
	}
}

func TestPercentageReductionRange(t *testing.T) {
	for _, ct := range CompanyTypes {
		for _, lvl := range OptimizationLevels {
			for _, audit := range []bool{false, true} {
				q := Questionnaire{CompanyType: ct, OptimizationLevel: lvl, HasEnergyAudit: audit, MonthlyEnergyCost: 0}
				r := Compute(q, FixedSource(0.5))
				if r.PercentageReduction <= 0 || r.PercentageReduction >= 100 {
					t.Fatalf("%s/%s/%v: reduction %f outside (0, 100)", ct, lvl, audit, r.PercentageReduction)
				}
				if r.AnnualSavings < 0 {
					t.Fatalf("expected non-negative savings for zero cost, got %f", r.AnnualSavings)
				}
			}
		}
	}
}

func TestTaxBenefitEqualsSavings(t *testing.T) {
	for _, cost := range []float64{0, 1, 1_234_567.89, 15_000_000, 9e12} {
		q := hotQuestionnaire()
		q.MonthlyEnergyCost = cost
		r := Compute(q, FixedSource(0))
		if !approxEqual(r.EstimatedTaxBenefit, r.AnnualSavings) {
			t.Fatalf("cost %f: tax benefit %f != savings %f", cost, r.EstimatedTaxBenefit, r.AnnualSavings)
		}
	}
}

func TestRoiMonthsRange(t *testing.T) {
	src := NewLockedSource(42)
	for i := 0; i < 1000; i++ {
		r := Compute(hotQuestionnaire(), src)
		if r.EstimatedRoiMonths < 24 || r.EstimatedRoiMonths >= 36 {
			t.Fatalf("roi months %f outside [24, 36)", r.EstimatedRoiMonths)
		}
	}

	// Out-of-range sources are clamped to the lower bound.
	for _, v := range []float64{-0.5, 1, 7, math.NaN()} {
		r := Compute(hotQuestionnaire(), FixedSource(v))
		if r.EstimatedRoiMonths != 24 {
			t.Fatalf("source %v: expected 24 months, got %f", v, r.EstimatedRoiMonths)
		}
	}

	if r := Compute(hotQuestionnaire(), FixedSource(0.5)); r.EstimatedRoiMonths != 30 {
		t.Fatalf("expected 30 months for 0.5 jitter, got %f", r.EstimatedRoiMonths)
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := Compute(hotQuestionnaire(), NewLockedSource(7))
	b := Compute(hotQuestionnaire(), NewLockedSource(7))
	if a != b {
		t.Fatalf("expected identical results for identical seeds: %+v vs %+v", a, b)
	}
}

func TestScenarioIndustryNoOptimization(t *testing.T) {
	q := Questionnaire{
		CompanyType:       CompanyIndustry,
		OptimizationLevel: OptimizationNone,
		HasEnergyAudit:    false,
		MonthlyEnergyCost: 15_000_000,
	}

	if f := InefficiencyFactor(q); !approxEqual(f, 0.22) {
		t.Fatalf("expected factor 0.22, got %f", f)
	}
	if c := AnnualCost(q); c != 180_000_000 {
		t.Fatalf("expected annual cost 180000000, got %f", c)
	}

	r := Compute(q, FixedSource(0))
	if !approxEqual(r.AnnualSavings, 39_600_000) {
		t.Fatalf("expected savings 39600000, got %f", r.AnnualSavings)
	}
	if !approxEqual(r.PercentageReduction, 22.0) {
		t.Fatalf("expected reduction 22.0, got %f", r.PercentageReduction)
	}
	if !approxEqual(r.EstimatedTaxBenefit, 39_600_000) {
		t.Fatalf("expected tax benefit 39600000, got %f", r.EstimatedTaxBenefit)
	}
}

func TestScenarioIndustryAdvancedAudited(t *testing.T) {
	q := Questionnaire{
		CompanyType:       CompanyIndustry,
		OptimizationLevel: OptimizationAdvanced,
		HasEnergyAudit:    true,
		MonthlyEnergyCost: 15_000_000,
	}

	if f := InefficiencyFactor(q); !approxEqual(f, 0.0792) {
		t.Fatalf("expected factor 0.0792, got %f", f)
	}
	r := Compute(q, FixedSource(0))
	if !approxEqual(r.AnnualSavings, 14_256_000) {
		t.Fatalf("expected savings 14256000, got %f", r.AnnualSavings)
	}
}

func TestUnknownCompanyTypeUsesDefaultFactor(t *testing.T) {
	q := Questionnaire{CompanyType: "Minería", OptimizationLevel: OptimizationPartial, MonthlyEnergyCost: 100}
	if f := InefficiencyFactor(q); !approxEqual(f, 0.15*0.7) {
		t.Fatalf("expected default factor scaled by partial, got %f", f)
	}
}

func TestNegativeCostIsNotRejected(t *testing.T) {
	q := hotQuestionnaire()
	q.MonthlyEnergyCost = -1000
	r := Compute(q, FixedSource(0))
	if !(r.AnnualSavings < 0) {
		t.Fatalf("expected negative savings to flow through, got %f", r.AnnualSavings)
	}
}

func TestChartData(t *testing.T) {
	q := hotQuestionnaire()
	r := Compute(q, FixedSource(0))
	bars := ChartData(q, r)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Value != 180_000_000 {
		t.Fatalf("expected current cost 180000000, got %f", bars[0].Value)
	}
	if !approxEqual(bars[1].Value, 180_000_000-39_600_000) {
		t.Fatalf("unexpected optimised cost %f", bars[1].Value)
	}
}

func TestComputeIsSafeForConcurrentUse(t *testing.T) {
	src := NewLockedSource(1)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r := Compute(hotQuestionnaire(), src)
				if r.Score != 100 {
					t.Errorf("unexpected score %d", r.Score)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestComputeNilSourceUsesDefault(t *testing.T) {
	r := Compute(hotQuestionnaire(), nil)
	if r.EstimatedRoiMonths < 24 || r.EstimatedRoiMonths >= 36 {
		t.Fatalf("roi months %f outside [24, 36)", r.EstimatedRoiMonths)
	}
}
