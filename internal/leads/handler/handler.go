package handler

import (
	"context"
	"net/http"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/leads/transport"
	"energy_diagnostic_backend/internal/wizard"
	"energy_diagnostic_backend/platform/httpkit"
	"energy_diagnostic_backend/platform/logger"
	"energy_diagnostic_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgInvalidSessionID = "invalid session id"
)

// DiagnosticService runs the engine and the advisory-text generator.
type DiagnosticService interface {
	Diagnose(q diagnostic.Questionnaire) diagnostic.Result
	Insight(ctx context.Context, q diagnostic.Questionnaire, r *diagnostic.Result) (string, error)
}

// WizardService drives questionnaire sessions.
type WizardService interface {
	Start(ctx context.Context) (wizard.Session, error)
	Get(ctx context.Context, id uuid.UUID) (wizard.Session, error)
	Apply(ctx context.Context, id uuid.UUID, answers wizard.Answers) (wizard.Session, error)
	Next(ctx context.Context, id uuid.UUID) (wizard.Session, error)
	Back(ctx context.Context, id uuid.UUID) (wizard.Session, error)
	SelectAction(ctx context.Context, id uuid.UUID, label string) (wizard.Session, error)
	Insight(ctx context.Context, id uuid.UUID) (string, error)
	Complete(ctx context.Context, id uuid.UUID, contact wizard.Contact) (wizard.Session, error)
}

type Handler struct {
	svc    DiagnosticService
	wizard WizardService
	val    *validator.Validator
}

func New(svc DiagnosticService, wiz WizardService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, wizard: wiz, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog/sectors", h.Catalog)

	rg.POST("/diagnostics", h.Diagnose)
	rg.POST("/diagnostics/insight", h.Insight)

	sessions := rg.Group("/wizard/sessions")
	sessions.POST("", h.StartSession)
	sessions.GET("/:id", h.GetSession)
	sessions.PUT("/:id/answers", h.ApplyAnswers)
	sessions.POST("/:id/next", h.Next)
	sessions.POST("/:id/back", h.Back)
	sessions.POST("/:id/action", h.SelectAction)
	sessions.POST("/:id/insight", h.SessionInsight)
	sessions.POST("/:id/contact", h.Complete)
}

func (h *Handler) Catalog(c *gin.Context) {
	sectors := make(map[string][]string, len(diagnostic.CompanyTypes))
	for _, ct := range diagnostic.CompanyTypes {
		sectors[string(ct)] = diagnostic.SectorsFor(ct)
	}
	httpkit.OK(c, transport.SectorCatalogResponse{
		CompanyTypes:       diagnostic.CompanyTypes,
		OptimizationLevels: diagnostic.OptimizationLevels,
		Sectors:            sectors,
		Defaults:           diagnostic.DefaultQuestionnaire(),
	})
}

func (h *Handler) Diagnose(c *gin.Context) {
	var req transport.QuestionnaireRequest
	if !h.bind(c, &req) {
		return
	}

	q := req.ToDomain()
	httpkit.OK(c, transport.ToDiagnosticResponse(q, h.svc.Diagnose(q)))
}

// Insight always answers 200; generator failures are replaced with fallback copy.
func (h *Handler) Insight(c *gin.Context) {
	var req transport.InsightRequest
	if !h.bind(c, &req) {
		return
	}

	text, err := h.svc.Insight(c.Request.Context(), req.Questionnaire.ToDomain(), req.Result)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.InsightResponse{Insight: text})
}

func (h *Handler) StartSession(c *gin.Context) {
	session, err := h.wizard.Start(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToSessionResponse(session))
}

func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := h.wizard.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(session))
}

func (h *Handler) ApplyAnswers(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req transport.AnswersRequest
	if !h.bind(c, &req) {
		return
	}
	session, err := h.wizard.Apply(c.Request.Context(), id, req.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(session))
}

func (h *Handler) Next(c *gin.Context) {
	h.transition(c, h.wizard.Next)
}

func (h *Handler) Back(c *gin.Context) {
	h.transition(c, h.wizard.Back)
}

func (h *Handler) SelectAction(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req transport.ActionRequest
	if !h.bind(c, &req) {
		return
	}
	session, err := h.wizard.SelectAction(c.Request.Context(), id, req.Action)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(session))
}

func (h *Handler) SessionInsight(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	text, err := h.wizard.Insight(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.InsightResponse{Insight: text})
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req transport.ContactRequest
	if !h.bind(c, &req) {
		return
	}
	session, err := h.wizard.Complete(c.Request.Context(), id, req.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.CaptureResponse{Insight: session.Insight}
	if session.LeadID != nil {
		resp.LeadID = *session.LeadID
	}
	if session.Result != nil {
		resp.LeadCategory = session.Result.LeadCategory
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) transition(c *gin.Context, step func(context.Context, uuid.UUID) (wizard.Session, error)) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := step(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(session))
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return false
	}
	return true
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSessionID, nil)
		return uuid.Nil, false
	}
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, id.String())
	c.Request = c.Request.WithContext(ctx)
	return id, true
}
