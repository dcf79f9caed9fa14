package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/insight"
	"energy_diagnostic_backend/internal/leads/transport"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/logger"
	"energy_diagnostic_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDiagnostics struct{}

func (fakeDiagnostics) Diagnose(q diagnostic.Questionnaire) diagnostic.Result {
	return diagnostic.Compute(q, diagnostic.FixedSource(0))
}

func (fakeDiagnostics) Insight(context.Context, diagnostic.Questionnaire, *diagnostic.Result) (string, error) {
	return insight.FallbackText, nil
}

type fakeCapturer struct {
	id uuid.UUID
}

func (f fakeCapturer) CaptureFromSession(context.Context, wizard.Session) (wizard.CapturedLead, error) {
	return wizard.CapturedLead{ID: f.id, Insight: "capturado"}, nil
}

func newRouter(t *testing.T, leadID uuid.UUID) *gin.Engine {
	t.Helper()
	val := validator.New()
	if err := transport.RegisterValidators(val); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	calc := func(q diagnostic.Questionnaire) diagnostic.Result {
		return diagnostic.Compute(q, diagnostic.FixedSource(0))
	}
	wiz := wizard.NewService(wizard.NewMemoryStore(time.Hour), calc, insight.Static{Text: "texto"}, fakeCapturer{id: leadID}, logger.Discard())

	engine := gin.New()
	New(fakeDiagnostics{}, wiz, val).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func validQuestionnaire() map[string]any {
	return map[string]any{
		"companyType":             "Industria",
		"sector":                  "Manufactura",
		"location":                "Medellín",
		"monthlyConsumptionKwh":   25000,
		"monthlyEnergyCost":       15000000,
		"optimizationLevel":       "Ninguno",
		"interestedInTaxBenefits": true,
	}
}

func TestDiagnoseReturnsResultAndChart(t *testing.T) {
	engine := newRouter(t, uuid.New())
	w := do(t, engine, http.MethodPost, "/api/v1/diagnostics", validQuestionnaire())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[transport.DiagnosticResponse](t, w)
	if resp.Result.Score != 100 || resp.Result.LeadCategory != diagnostic.LeadHot {
		t.Fatalf("unexpected result %+v", resp.Result)
	}
	if len(resp.Chart) != 2 || resp.Chart[0].Value != 180_000_000 {
		t.Fatalf("unexpected chart %+v", resp.Chart)
	}
}

func TestDiagnoseRejectsUnknownEnum(t *testing.T) {
	engine := newRouter(t, uuid.New())
	body := validQuestionnaire()
	body["companyType"] = "Minería"
	w := do(t, engine, http.MethodPost, "/api/v1/diagnostics", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, engine, http.MethodPost, "/api/v1/diagnostics", "not an object"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestInsightAlwaysAnswers(t *testing.T) {
	engine := newRouter(t, uuid.New())
	w := do(t, engine, http.MethodPost, "/api/v1/diagnostics/insight", map[string]any{"questionnaire": validQuestionnaire()})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[transport.InsightResponse](t, w); resp.Insight != insight.FallbackText {
		t.Fatalf("unexpected insight %q", resp.Insight)
	}
}

func TestCatalog(t *testing.T) {
	engine := newRouter(t, uuid.New())
	w := do(t, engine, http.MethodGet, "/api/v1/catalog/sectors", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[transport.SectorCatalogResponse](t, w)
	if len(resp.Sectors["Comercio"]) != 5 || resp.Defaults.MonthlyConsumptionKwh != 5000 {
		t.Fatalf("unexpected catalog %+v", resp)
	}
}

func TestWizardErrors(t *testing.T) {
	engine := newRouter(t, uuid.New())
	if w := do(t, engine, http.MethodGet, "/api/v1/wizard/sessions/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(t, engine, http.MethodPost, "/api/v1/wizard/sessions/"+uuid.NewString()+"/next", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w := do(t, engine, http.MethodPost, "/api/v1/wizard/sessions", nil)
	session := decode[transport.SessionResponse](t, w)
	base := "/api/v1/wizard/sessions/" + session.ID.String()

	w = do(t, engine, http.MethodPut, base+"/answers", map[string]any{"consumption": map[string]any{"monthlyEnergyCost": 1}})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for answers of another stage, got %d", w.Code)
	}
	// Location is empty by default.
	if w := do(t, engine, http.MethodPost, base+"/next", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete company stage, got %d", w.Code)
	}
	if w := do(t, engine, http.MethodPost, base+"/contact", map[string]any{"name": "Ana", "email": "ana@example.co", "phone": "3001234567"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for early contact, got %d", w.Code)
	}
}

func TestWizardFullFlow(t *testing.T) {
	leadID := uuid.New()
	engine := newRouter(t, leadID)

	w := do(t, engine, http.MethodPost, "/api/v1/wizard/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	session := decode[transport.SessionResponse](t, w)
	if session.Stage != "company" || session.Step != 1 {
		t.Fatalf("unexpected start %+v", session)
	}
	base := "/api/v1/wizard/sessions/" + session.ID.String()

	w = do(t, engine, http.MethodPut, base+"/answers", map[string]any{"company": map[string]any{"location": "Barranquilla"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for i := 0; i < 4; i++ {
		if w = do(t, engine, http.MethodPost, base+"/next", nil); w.Code != http.StatusOK {
			t.Fatalf("next %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
	}
	session = decode[transport.SessionResponse](t, w)
	if session.Stage != "results" || session.Result == nil {
		t.Fatalf("expected results, got %+v", session)
	}

	w = do(t, engine, http.MethodPost, base+"/insight", nil)
	if resp := decode[transport.InsightResponse](t, w); resp.Insight != "texto" {
		t.Fatalf("unexpected session insight %q", resp.Insight)
	}

	if w = do(t, engine, http.MethodPost, base+"/action", map[string]any{"action": "Agendar Visita Técnica"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w = do(t, engine, http.MethodPost, base+"/contact", map[string]any{"name": "Ana", "email": "bad", "phone": "3001234567"}); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid email, got %d", w.Code)
	}

	w = do(t, engine, http.MethodPost, base+"/contact", map[string]any{"name": "Ana", "email": "ana@example.co", "phone": "3001234567"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	captured := decode[transport.CaptureResponse](t, w)
	if captured.LeadID != leadID || captured.Insight != "texto" {
		t.Fatalf("unexpected capture response %+v", captured)
	}
}
