package wizard

import (
	"testing"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/apperr"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T { return &v }

func fixedCalc(calls *int) Calculator {
	return func(q diagnostic.Questionnaire) diagnostic.Result {
		*calls++
		return diagnostic.Compute(q, diagnostic.FixedSource(0))
	}
}

func sessionAt(stage Stage) Session {
	s := NewSession(uuid.New(), time.Unix(0, 0))
	s.Stage = stage
	s.Answers.Location = "Bogotá"
	return s
}

func TestStageTextRoundTrip(t *testing.T) {
	for st := StageLanding; st <= StageCompleted; st++ {
		b, _ := st.MarshalText()
		var got Stage
		if err := got.UnmarshalText(b); err != nil || got != st {
			t.Fatalf("round trip %s: got %s, err %v", st, got, err)
		}
	}
	var s Stage
	if err := s.UnmarshalText([]byte("checkout")); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}

func TestApplyRejectsOtherStageSections(t *testing.T) {
	s := sessionAt(StageCompany)
	err := s.Apply(Answers{Consumption: &ConsumptionAnswers{MonthlyEnergyCost: ptr(1.0)}})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if s.Answers.MonthlyEnergyCost != 15_000_000 {
		t.Fatalf("answers must be untouched, got %f", s.Answers.MonthlyEnergyCost)
	}
}

func TestApplyOutsideQuestionnaire(t *testing.T) {
	for _, st := range []Stage{StageLanding, StageResults, StageContact, StageCompleted} {
		s := sessionAt(st)
		if err := s.Apply(Answers{}); !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("%s: expected conflict, got %v", st, err)
		}
	}
}

func TestApplyMergesPartialAnswers(t *testing.T) {
	s := sessionAt(StageCompany)
	ct := diagnostic.CompanyCommerce
	if err := s.Apply(Answers{Company: &CompanyAnswers{CompanyType: &ct, Sector: ptr("  Retail ")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Answers.CompanyType != diagnostic.CompanyCommerce || s.Answers.Sector != "Retail" {
		t.Fatalf("unexpected answers %+v", s.Answers)
	}
	if s.Answers.Location != "Bogotá" {
		t.Fatalf("unset fields must be kept, got %q", s.Answers.Location)
	}
}

func TestCompanyStageValidation(t *testing.T) {
	s := sessionAt(StageCompany)
	s.Answers.Location = "Ca"
	err := s.Next(fixedCalc(new(int)))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Stage != StageCompany {
		t.Fatalf("stage must not change, got %s", s.Stage)
	}
	if issues := s.Issues(); issues["location"] == "" {
		t.Fatalf("expected location issue, got %v", issues)
	}

	s.Answers.Location = "Cal"
	if err := s.Next(fixedCalc(new(int))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stage != StageConsumption {
		t.Fatalf("expected consumption, got %s", s.Stage)
	}
}

func TestConsumptionStageValidation(t *testing.T) {
	s := sessionAt(StageConsumption)
	s.Answers.MonthlyConsumptionKwh = 0
	s.Answers.MonthlyEnergyCost = -5
	issues := s.Issues()
	if issues["monthlyConsumptionKwh"] == "" || issues["monthlyEnergyCost"] == "" {
		t.Fatalf("expected both consumption issues, got %v", issues)
	}
}

func TestFullWalkComputesOnce(t *testing.T) {
	calls := 0
	calc := fixedCalc(&calls)
	s := sessionAt(StageLanding)
	for s.Stage != StageResults {
		if err := s.Next(calc); err != nil {
			t.Fatalf("next from %s: %v", s.Stage, err)
		}
	}
	if calls != 1 || s.Result == nil {
		t.Fatalf("expected one computation, got %d (result %v)", calls, s.Result)
	}
	if err := s.Next(calc); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict advancing from results, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("results must not be recomputed, got %d calls", calls)
	}
}

func TestBackFromResultsDiscardsResult(t *testing.T) {
	calls := 0
	calc := fixedCalc(&calls)
	s := sessionAt(StageIncentives)
	if err := s.Next(calc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stage != StageIncentives || s.Result != nil {
		t.Fatalf("expected incentives without result, got %s %v", s.Stage, s.Result)
	}

	landing := sessionAt(StageLanding)
	if err := landing.Back(); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict going back from landing, got %v", err)
	}
}

func TestSelectActionAndComplete(t *testing.T) {
	s := sessionAt(StageIncentives)
	if err := s.Complete(Contact{Name: "a", Email: "b", Phone: "c"}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict completing early, got %v", err)
	}
	if err := s.Next(fixedCalc(new(int))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SelectAction("  "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty action, got %v", err)
	}
	if err := s.SelectAction("Agendar Visita Técnica"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stage != StageContact || s.SelectedAction != "Agendar Visita Técnica" {
		t.Fatalf("unexpected state %s %q", s.Stage, s.SelectedAction)
	}

	err := s.Complete(Contact{Name: "Ana", Email: " ", Phone: "3001234567"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := s.Complete(Contact{Name: " Ana ", Email: "ana@example.co", Phone: "3001234567"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stage != StageCompleted || s.Contact.Name != "Ana" {
		t.Fatalf("unexpected state %s %+v", s.Stage, s.Contact)
	}
	if err := s.Back(); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected completed session to be final, got %v", err)
	}
}

func TestApplyCompanyTypeResetsSector(t *testing.T) {
	s := sessionAt(StageCompany)
	if err := s.Apply(Answers{Company: &CompanyAnswers{CompanyType: ptr(diagnostic.CompanyCommerce), Location: ptr("Bogotá")}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Answers.CompanyType != diagnostic.CompanyCommerce || s.Answers.Sector != "Retail" {
		t.Fatalf("expected Comercio/Retail, got %s/%s", s.Answers.CompanyType, s.Answers.Sector)
	}
	if !diagnostic.IsRecommendedSector(s.Answers.CompanyType, s.Answers.Sector) {
		t.Fatalf("expected a recommended sector after switching type")
	}

	// An explicit sector wins, and resending the same type keeps it.
	if err := s.Apply(Answers{Company: &CompanyAnswers{CompanyType: ptr(diagnostic.CompanyBuilding), Sector: ptr("Salud")}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := s.Apply(Answers{Company: &CompanyAnswers{CompanyType: ptr(diagnostic.CompanyBuilding)}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Answers.Sector != "Salud" {
		t.Fatalf("expected Salud to be kept, got %s", s.Answers.Sector)
	}

	// Unknown types have no catalog entry, so the sector is left alone.
	if err := s.Apply(Answers{Company: &CompanyAnswers{CompanyType: ptr(diagnostic.CompanyType("Minería"))}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Answers.Sector != "Salud" {
		t.Fatalf("expected sector untouched for unknown type, got %s", s.Answers.Sector)
	}
}
