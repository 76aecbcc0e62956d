package llmHandlers

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderGemini          Provider = "gemini"
	ProviderLangChainOpenAI Provider = "openai"
	ProviderLangChainGroq   Provider = "groq"
	ProviderVertexAnthropic Provider = "vertex_anthropic"
)

type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string

	// Vertex Anthropic only
	Predictor RawPredictor
	ProjectID string
	Location  string
}

// Configured reports whether cfg carries the credential its provider needs.
// An unconfigured provider means the assistant runs offline.
func (cfg Config) Configured() bool {
	switch cfg.Provider {
	case ProviderVertexAnthropic:
		return cfg.Predictor != nil && cfg.ProjectID != "" && cfg.Model != ""
	default:
		return cfg.APIKey != "" && cfg.APIKey != "your_api_key_here"
	}
}

// New builds the client for cfg.Provider. It returns (nil, nil) when the
// provider is not configured.
func New(ctx context.Context, cfg Config) (Client, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	switch cfg.Provider {
	case ProviderGemini:
		return NewGenaiGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case ProviderLangChainOpenAI:
		return NewLangChainClient(LangChainConfig{Model: cfg.Model, APIKey: cfg.APIKey})
	case ProviderLangChainGroq:
		return NewLangChainClient(LangChainConfig{Model: cfg.Model, APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	case ProviderVertexAnthropic:
		return NewVertexAnthropicClient(cfg.Predictor, cfg.ProjectID, cfg.Location, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %s", cfg.Provider)
	}
}
