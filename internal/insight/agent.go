package insight

import (
	"context"
	"fmt"
	"strings"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/ai/moonshot"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	appName            = "energy-insight"
	temperature        = 0.7
	topP               = 0.8
)

// AgentGenerator runs a tool-free ADK agent over any model.LLM.
type AgentGenerator struct {
	runner         *runner.Runner
	sessionService session.Service
}

// NewAgentGenerator builds the agent and its runner around llm.
func NewAgentGenerator(llm model.LLM) (*AgentGenerator, error) {
	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "EnergyInsightWriter",
		Model:       llm,
		Description: "Writes short executive summaries of an energy savings diagnostic.",
		Instruction: systemInstruction,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](temperature),
			TopP:        genai.Ptr[float32](topP),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create insight agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create insight runner: %w", err)
	}

	return &AgentGenerator{runner: r, sessionService: sessionService}, nil
}

// NewGemini creates a generator backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, modelName string) (*AgentGenerator, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	llm, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return NewAgentGenerator(llm)
}

// NewMoonshot creates a generator backed by the Kimi chat completions API.
func NewMoonshot(apiKey string) (*AgentGenerator, error) {
	return NewAgentGenerator(moonshot.NewModel(moonshot.Config{
		APIKey: apiKey,
		Model:  moonshot.DefaultModel,
	}))
}

func (g *AgentGenerator) Generate(ctx context.Context, q diagnostic.Questionnaire, r diagnostic.Result) (string, error) {
	sessionID := uuid.New().String()
	userID := "insight-" + sessionID

	_, err := g.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: create session: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = g.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: BuildPrompt(q, r)}},
	}
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var outputText strings.Builder
	for event, err := range g.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("%w: run failed: %w", ErrUnavailable, err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			outputText.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(outputText.String()), nil
}
