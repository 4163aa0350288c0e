package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead of
// a response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is an in-process Provider for tests and the offline demo.
// Scripted replies are served first in FIFO order, then Fallback answers.
// Every request is recorded in Calls. Safe for concurrent use.
type MockProvider struct {
	mu      sync.Mutex
	scripts []MockResponse
	Calls   []Request

	// Fallback answers once the script is exhausted. Without it an empty
	// script reports the gateway as unavailable.
	Fallback func(req Request) MockResponse
}

// NewMockProvider creates a MockProvider scripted with responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{scripts: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	reply, ok := m.next(req)
	if !ok {
		return nil, &ErrGatewayUnavailable{}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &Response{
		Content:    reply.Content,
		Usage:      reply.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.scripts) > 0 {
		reply := m.scripts[0]
		m.scripts = m.scripts[1:]
		return reply, true
	}
	if m.Fallback != nil {
		return m.Fallback(req), true
	}
	return MockResponse{}, false
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a scripted reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, resp)
}

// CallCount returns the number of Generate calls made so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
