package llm

import (
	"context"
	"fmt"

	"github.com/sumrise/sumrise/internal/store"
)

// NewProvider builds the configured backend and decorates it so callers
// see timeout, then logging, then the vendor call. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithTimeout(WithLogging(base, cfg.Provider, events), cfg.Timeout), nil
}

func newBackend(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	default:
		m := NewMockProvider()
		m.Fallback = cfg.MockFallback
		return m, nil
	}
}
