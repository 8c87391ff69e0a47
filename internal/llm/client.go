package llm

import (
	"context"

	"github.com/zachmeador/pineneedle/internal/config"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// Client is one configured model endpoint. Implementations hold no mutable
// state, so a single client is safe to share across concurrent calls.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Provider() string
	ModelName() string
}

// New builds a client for the given model config. Credentials are checked
// eagerly so a missing key fails here, not mid-call.
func New(ctx context.Context, cfg types.ModelConfig) (Client, error) {
	if err := config.CheckCredentials(cfg.Provider); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "gemini", "google":
		return newGemini(ctx, cfg)
	default:
		return newOpenAI(cfg), nil
	}
}
