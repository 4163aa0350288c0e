package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects a backend and carries the settings for every backend.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini", "openrouter" or "mock".
	Provider string

	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// MockFallback answers mock requests once the scripted replies run out.
	MockFallback func(req Request) MockResponse

	// Timeout bounds one gateway call. Zero means no bound.
	Timeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible servers
}

type AnthropicConfig struct {
	APIKey string
	Model  string // short aliases like "claude-haiku" are resolved
}

type GeminiConfig struct {
	APIKey string
	Model  string // short aliases like "gemini-flash" are resolved
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // vendor-prefixed, e.g. "openai/gpt-4o-mini"
	BaseURL string
}

// DefaultConfig returns the built-in models for each backend with OpenAI
// selected and a one-minute call timeout.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Timeout:    time.Minute,
	}
}

// credential describes where one backend's key and model come from.
type credential struct {
	provider string
	keyEnv   []string // first non-empty wins
	modelEnv string
	key      func(*Config) *string
	model    func(*Config) *string
}

// credentials is ordered by discovery preference.
var credentials = []credential{
	{
		provider: "openai",
		keyEnv:   []string{"SUMRISE_OPENAI_API_KEY", "OPENAI_API_KEY"},
		modelEnv: "SUMRISE_OPENAI_MODEL",
		key:      func(c *Config) *string { return &c.OpenAI.APIKey },
		model:    func(c *Config) *string { return &c.OpenAI.Model },
	},
	{
		provider: "anthropic",
		keyEnv:   []string{"SUMRISE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		modelEnv: "SUMRISE_ANTHROPIC_MODEL",
		key:      func(c *Config) *string { return &c.Anthropic.APIKey },
		model:    func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		provider: "gemini",
		keyEnv:   []string{"SUMRISE_GEMINI_API_KEY", "GEMINI_API_KEY"},
		modelEnv: "SUMRISE_GEMINI_MODEL",
		key:      func(c *Config) *string { return &c.Gemini.APIKey },
		model:    func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		provider: "openrouter",
		keyEnv:   []string{"SUMRISE_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
		modelEnv: "SUMRISE_OPENROUTER_MODEL",
		key:      func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:    func(c *Config) *string { return &c.OpenRouter.Model },
	},
}

func lookupCredential(provider string) (credential, bool) {
	for _, cr := range credentials {
		if cr.provider == provider {
			return cr, true
		}
	}
	return credential{}, false
}

// ConfigFromEnv overlays the environment on DefaultConfig. SUMRISE_*
// variables take precedence over the vendors' own key variables. Without
// SUMRISE_LLM_PROVIDER the first backend that has a key is selected.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	var discovered string
	for _, cr := range credentials {
		for _, k := range cr.keyEnv {
			if v := os.Getenv(k); v != "" {
				*cr.key(&cfg) = v
				break
			}
		}
		if m := os.Getenv(cr.modelEnv); m != "" {
			*cr.model(&cfg) = m
		}
		if discovered == "" && *cr.key(&cfg) != "" {
			discovered = cr.provider
		}
	}
	if u := os.Getenv("SUMRISE_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if t := os.Getenv("SUMRISE_LLM_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("SUMRISE_LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	switch p := os.Getenv("SUMRISE_LLM_PROVIDER"); {
	case p != "":
		cfg.Provider = p
	case discovered != "":
		cfg.Provider = discovered
	}
	return cfg, nil
}

// Validate reports an unknown provider or a missing API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	cr, ok := lookupCredential(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *cr.key(&c) == "" {
		return fmt.Errorf("%s (or %s) is required for the %s provider", cr.keyEnv[1], cr.keyEnv[0], c.Provider)
	}
	return nil
}
