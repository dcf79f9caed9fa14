package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusUnprocessableEntity},
		{BadRequest("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Internal("x"), http.StatusInternalServerError},
		{Unavailable("x"), http.StatusServiceUnavailable},
		{New(KindUnknown, "x"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("kind %d: expected %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := NotFound("session not found").WithOp("wizard.Load")
	wrapped := fmt.Errorf("load session: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected wrapped error to report KindNotFound")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected KindUnknown for plain errors")
	}
	if base.Error() != "wizard.Load: session not found" {
		t.Fatalf("unexpected message %q", base.Error())
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "insight provider unavailable", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected Wrap to keep the cause reachable")
	}
}
