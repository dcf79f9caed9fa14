package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/logger"
)

type fallbackGenerator struct {
	next     Generator
	provider string
	log      *logger.Logger
	timeout  time.Duration
}

// WithFallback wraps next so that Generate never fails: errors, panics and
// timeouts yield FallbackText and an empty answer yields EmptyText. A
// non-positive timeout leaves the caller's deadline in charge.
func WithFallback(next Generator, provider string, log *logger.Logger, timeout time.Duration) Generator {
	return &fallbackGenerator{next: next, provider: provider, log: log, timeout: timeout}
}

func (f *fallbackGenerator) Generate(ctx context.Context, q diagnostic.Questionnaire, r diagnostic.Result) (text string, _ error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			f.log.WithContext(ctx).InsightFallback(f.provider, "panic", fmt.Errorf("%v", rec))
			text = FallbackText
		}
	}()

	out, err := f.next.Generate(ctx, q, r)
	if err != nil {
		f.log.WithContext(ctx).InsightFallback(f.provider, "error", err)
		return FallbackText, nil
	}
	out = strings.TrimSpace(out)
	if out == "" {
		f.log.WithContext(ctx).InsightFallback(f.provider, "empty", nil)
		return EmptyText, nil
	}
	return out, nil
}
