package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONOptions tunes a CompleteJSON call.
type JSONOptions struct {
	MaxTokens   int
	Temperature float64
}

// DefaultJSONOptions returns low-but-nonzero sampling so repeated requests
// converge on a similar structure.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// CompleteJSON sends a system+user prompt pair in JSON mode and decodes the
// single textual payload into an untyped object. The untyped map is meant to
// be converted into a typed record by the caller right away.
func CompleteJSON(ctx context.Context, p Provider, system, user string, opts JSONOptions) (map[string]any, error) {
	resp, err := p.Generate(ctx, Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		JSON:        true,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return decodeObject(resp)
}

func decodeObject(resp *Response) (map[string]any, error) {
	raw := bytes.TrimSpace(resp.Content)
	if len(raw) == 0 {
		return nil, &ErrMalformedResponse{Err: errors.New("empty payload")}
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		if resp.StopReason == StopMaxTokens {
			err = fmt.Errorf("truncated at max tokens: %w", err)
		}
		return nil, &ErrMalformedResponse{Content: raw, Err: err}
	}
	if payload == nil {
		return nil, &ErrMalformedResponse{Content: raw, Err: errors.New("payload is not a JSON object")}
	}
	return payload, nil
}
