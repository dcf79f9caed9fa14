// Package insight produces the short advisory text shown to a prospect once
// their contact details are captured.
package insight

import (
	"context"
	"errors"

	"energy_diagnostic_backend/internal/diagnostic"
)

// ErrUnavailable wraps every failure of an upstream text generator.
var ErrUnavailable = errors.New("insight generator unavailable")

const (
	// FallbackText replaces the insight when the generator fails.
	FallbackText = "Nuestro motor de IA está analizando su caso. El potencial de ahorro detectado es significativo y requiere atención inmediata de ingeniería."
	// EmptyText replaces the insight when the generator returns nothing.
	EmptyText = "No se pudo generar el análisis detallado en este momento."
)

// Generator turns a questionnaire and its result into advisory text.
type Generator interface {
	Generate(ctx context.Context, q diagnostic.Questionnaire, r diagnostic.Result) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, q diagnostic.Questionnaire, r diagnostic.Result) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, q diagnostic.Questionnaire, r diagnostic.Result) (string, error) {
	return f(ctx, q, r)
}

// Static always returns the same text. Used when no provider is configured.
type Static struct {
	Text string
}

func (s Static) Generate(context.Context, diagnostic.Questionnaire, diagnostic.Result) (string, error) {
	if s.Text == "" {
		return FallbackText, nil
	}
	return s.Text, nil
}
