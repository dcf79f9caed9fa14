package diagnostic

import "testing"

func TestParseCompanyType(t *testing.T) {
	cases := map[string]CompanyType{
		"Industria":   CompanyIndustry,
		" industry ":  CompanyIndustry,
		"COMERCIO":    CompanyCommerce,
		"Edificación": CompanyBuilding,
		"edificacion": CompanyBuilding,
		"Building":    CompanyBuilding,
	}
	for in, want := range cases {
		got, ok := ParseCompanyType(in)
		if !ok || got != want {
			t.Fatalf("ParseCompanyType(%q): expected %s, got %s (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseCompanyType("Minería"); ok {
		t.Fatalf("expected unknown type to fail")
	}
}

func TestParseOptimizationLevel(t *testing.T) {
	for in, want := range map[string]OptimizationLevel{
		"ninguno":  OptimizationNone,
		"Partial":  OptimizationPartial,
		"AVANZADO": OptimizationAdvanced,
	} {
		got, ok := ParseOptimizationLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseOptimizationLevel(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, ok := ParseOptimizationLevel("total"); ok {
		t.Fatalf("expected unknown level to fail")
	}
}

func TestDefaultQuestionnaire(t *testing.T) {
	q := DefaultQuestionnaire()
	if q.CompanyType != CompanyIndustry || q.Sector != "Manufactura" {
		t.Fatalf("unexpected defaults %+v", q)
	}
	if q.MonthlyConsumptionKwh != 5000 || q.MonthlyEnergyCost != 15_000_000 {
		t.Fatalf("unexpected consumption defaults %+v", q)
	}
	if q.Location != "" || q.OptimizationLevel != OptimizationNone {
		t.Fatalf("unexpected defaults %+v", q)
	}
}

func TestSectorCatalog(t *testing.T) {
	if !IsRecommendedSector(CompanyCommerce, "Logística") {
		t.Fatalf("expected Logística for Comercio")
	}
	if IsRecommendedSector(CompanyIndustry, "Retail") {
		t.Fatalf("did not expect Retail for Industria")
	}
	sectors := SectorsFor(CompanyBuilding)
	sectors[0] = "mutated"
	if SectorsFor(CompanyBuilding)[0] != "Hospitalidad" {
		t.Fatalf("SectorsFor must return a copy")
	}
	if SectorsFor("Agro") != nil {
		t.Fatalf("expected nil for unknown type")
	}
}
