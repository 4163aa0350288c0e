package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrGatewayUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %T", err)
	}
}

func TestMockProvider_FallbackAfterQueue(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"queued":true}`)})
	mock.Fallback = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`{"echo":"` + req.System + `"}`)}
	}

	first, err := mock.Generate(context.Background(), Request{System: "one"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"queued":true}` {
		t.Fatalf("queue must drain before fallback, got %s", first.Content)
	}

	second, err := mock.Generate(context.Background(), Request{System: "two"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"echo":"two"}` {
		t.Fatalf("expected fallback echo, got %s", second.Content)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{}`)})

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrGatewayUnavailable{StatusCode: 429}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	var gw *ErrGatewayUnavailable
	if !errors.As(err, &gw) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %T", err)
	}
	if gw.StatusCode != 429 {
		t.Fatalf("expected status 429, got %d", gw.StatusCode)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeGenerate)
	if p := PurposeFrom(ctx); p != "problem-gen" {
		t.Fatalf("expected 'problem-gen', got %q", p)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ErrGatewayUnavailable{}, "LLM gateway unavailable"},
		{&ErrGatewayUnavailable{Err: errors.New("dial tcp")}, "LLM gateway unavailable: dial tcp"},
		{&ErrGatewayUnavailable{StatusCode: 503, Err: errors.New("overloaded")}, "LLM gateway unavailable (HTTP 503): overloaded"},
		{&ErrMalformedResponse{Err: errors.New("empty payload")}, "malformed LLM response: empty payload"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	cause := context.DeadlineExceeded
	if !errors.Is(&ErrGatewayUnavailable{Err: cause}, cause) {
		t.Error("ErrGatewayUnavailable should unwrap to its cause")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SUMRISE_LLM_PROVIDER", "SUMRISE_LLM_TIMEOUT",
		"SUMRISE_OPENAI_API_KEY", "OPENAI_API_KEY", "SUMRISE_OPENAI_MODEL", "SUMRISE_OPENAI_BASE_URL",
		"SUMRISE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "SUMRISE_ANTHROPIC_MODEL",
		"SUMRISE_GEMINI_API_KEY", "GEMINI_API_KEY", "SUMRISE_GEMINI_MODEL",
		"SUMRISE_OPENROUTER_API_KEY", "OPENROUTER_API_KEY", "SUMRISE_OPENROUTER_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Fatalf("expected default provider 'openai', got %q", cfg.Provider)
	}
	if cfg.Timeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %v", cfg.Timeout)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected gpt-4o-mini, got %q", cfg.OpenAI.Model)
	}
}

func TestConfigFromEnv_DiscoversProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Fatalf("expected gemini to win discovery, got %q", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("expected gemini key from env, got %q", cfg.Gemini.APIKey)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "vendor-key")
	t.Setenv("SUMRISE_OPENAI_API_KEY", "app-key")
	t.Setenv("SUMRISE_OPENAI_MODEL", "gpt-4.1")
	t.Setenv("SUMRISE_LLM_PROVIDER", "mock")
	t.Setenv("SUMRISE_LLM_TIMEOUT", "5s")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.APIKey != "app-key" {
		t.Fatalf("SUMRISE_ key should win, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4.1" {
		t.Fatalf("expected model override, got %q", cfg.OpenAI.Model)
	}
	if cfg.Provider != "mock" {
		t.Fatalf("explicit provider should win, got %q", cfg.Provider)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.Timeout)
	}
}

func TestConfigFromEnv_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUMRISE_LLM_TIMEOUT", "soon")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}

func TestNewProvider_MockWithFallback(t *testing.T) {
	cfg := Config{
		Provider: "mock",
		MockFallback: func(Request) MockResponse {
			return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
		},
	}

	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("zero timeout should leave the logging decorator outermost, got %T", p)
	}

	obj, err := CompleteJSON(context.Background(), p, "sys", "user", DefaultJSONOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["ok"] != true {
		t.Fatalf("expected fallback payload, got %v", obj)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
	}{
		{"gpt-4o-mini", true},
		{"gpt-4o-mini-2024-07-18", true},
		{"gpt-4o-mini-preview", false},
		{"claude-haiku-4-5-20251001", true},
		{"mock", false},
	}
	for _, tt := range tests {
		if got := LookupCost(tt.model); (got != nil) != tt.found {
			t.Errorf("LookupCost(%q) found = %v, want %v", tt.model, got != nil, tt.found)
		}
	}

	c := LookupCost("gpt-4o-mini")
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected $0.75, got %v", got)
	}
}
