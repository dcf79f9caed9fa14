package insight

import (
	"context"

	"energy_diagnostic_backend/platform/config"
	"energy_diagnostic_backend/platform/logger"
)

// New builds the configured generator wrapped in WithFallback. A provider
// without credentials, or one that fails to initialise, degrades to Static.
func New(ctx context.Context, cfg config.InsightConfig, log *logger.Logger) Generator {
	provider := cfg.GetInsightProvider()
	var gen Generator

	switch provider {
	case "gemini":
		if cfg.GetGeminiAPIKey() == "" {
			log.Warn("GEMINI_API_KEY not set, insight uses static text")
			break
		}
		g, err := NewGemini(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			log.Error("failed to initialise gemini insight generator", "error", err)
			break
		}
		gen = g
	case "moonshot":
		if cfg.GetMoonshotAPIKey() == "" {
			log.Warn("MOONSHOT_API_KEY not set, insight uses static text")
			break
		}
		g, err := NewMoonshot(cfg.GetMoonshotAPIKey())
		if err != nil {
			log.Error("failed to initialise moonshot insight generator", "error", err)
			break
		}
		gen = g
	}

	if gen == nil {
		provider = "static"
		gen = Static{}
	}
	return WithFallback(gen, provider, log, cfg.GetInsightTimeout())
}
