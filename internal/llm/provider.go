package llm

import (
	"context"
	"encoding/json"
)

// Provider is one configured model endpoint. Every backend, decorator and
// the mock satisfy it.
type Provider interface {
	// Generate performs exactly one round trip. Backends never retry.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model identifier, used for event logging.
	ModelID() string
}

// Request is a provider-neutral chat completion request.
type Request struct {
	System   string
	Messages []Message

	// JSON constrains the reply to one JSON object using the backend's
	// native mechanism: response_format for OpenAI, response MIME type for
	// Gemini, an assistant prefill for Anthropic.
	JSON bool

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the single textual payload of a completion.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may be a dated
	// snapshot of the configured one.
	Model string

	// RequestID is the vendor's identifier for the completion, if any.
	RequestID string

	StopReason string
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
