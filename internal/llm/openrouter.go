package llm

import (
	"cmp"
	"errors"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// App attribution headers shown on OpenRouter's usage pages.
const (
	openRouterReferer = "https://github.com/sumrise/sumrise"
	openRouterTitle   = "SumRise"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model IDs
// are OpenRouter slugs ("openai/gpt-4o-mini") and pass through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}

	hc := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	baseURL := cmp.Or(cfg.BaseURL, defaultOpenRouterBaseURL)
	return &OpenRouterProvider{newOpenAICompatible(cfg.APIKey, baseURL, cfg.Model, hc)}, nil
}

// attributionTransport stamps every request with the app headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(r)
}
