package httpkit

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy_diagnostic_backend/platform/apperr"
	"energy_diagnostic_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{apperr.NotFound("session not found"), http.StatusNotFound, "session not found"},
		{fmt.Errorf("wrapped: %w", apperr.Conflict("wrong stage")), http.StatusConflict, "wrong stage"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		if !HandleError(c, tc.err) {
			t.Fatalf("expected error to be handled")
		}
		if w.Code != tc.wantStatus {
			t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
		}
		if !strings.Contains(w.Body.String(), tc.wantBody) {
			t.Fatalf("expected body to contain %q, got %s", tc.wantBody, w.Body.String())
		}
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	engine.ServeHTTP(w, req)

	if w.Header().Get(HeaderRequestID) != "req-123" || w.Body.String() != "req-123" {
		t.Fatalf("expected caller request id to be kept, got header %q body %q", w.Header().Get(HeaderRequestID), w.Body.String())
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	limiter := NewPerMinuteLimiter(2, logger.Discard())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}
