package llm

import (
	"encoding/json"
	"fmt"
)

// ErrGatewayUnavailable indicates the model endpoint could not be reached or
// rejected the call (network failure, bad credentials, 429, 5xx).
type ErrGatewayUnavailable struct {
	// StatusCode is the HTTP status returned by the endpoint, or 0 when the
	// request never got a response.
	StatusCode int
	Err        error
}

func (e *ErrGatewayUnavailable) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("LLM gateway unavailable (HTTP %d): %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("LLM gateway unavailable: %v", e.Err)
	default:
		return "LLM gateway unavailable"
	}
}

func (e *ErrGatewayUnavailable) Unwrap() error { return e.Err }

// ErrMalformedResponse indicates the endpoint answered but its textual
// payload is not a JSON object.
type ErrMalformedResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed LLM response: %v", e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Err }
