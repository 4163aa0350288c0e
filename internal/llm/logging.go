package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sumrise/sumrise/internal/metrics"
	"github.com/sumrise/sumrise/internal/store"
)

// LoggingProvider records every call in the event log, the Prometheus
// collectors and the structured log. Recording never fails the call.
type LoggingProvider struct {
	inner  Provider
	name   string
	events store.EventRepo
}

// WithLogging wraps p. name labels the backend ("openai", "mock", ...);
// events may be nil.
func WithLogging(p Provider, name string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, name: name, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	purpose := PurposeFrom(ctx)
	data := l.eventData(purpose, req, resp, err, latency)

	metrics.ObserveLLMRequest(l.name, purpose, err == nil, latency)
	l.logCall(data, resp, err, latency)

	if l.events != nil {
		if appendErr := l.events.AppendLLMRequest(ctx, data); appendErr != nil {
			log.Warn().Err(appendErr).Str("purpose", purpose).Msg("failed to record LLM request event")
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) eventData(purpose string, req Request, resp *Response, err error, latency time.Duration) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

func (l *LoggingProvider) logCall(data store.LLMRequestEventData, resp *Response, err error, latency time.Duration) {
	var ev *zerolog.Event
	if err != nil {
		ev = log.Warn().Err(err)
	} else {
		ev = log.Debug()
	}
	if resp != nil && resp.RequestID != "" {
		ev = ev.Str("request_id", resp.RequestID)
	}
	ev.Str("provider", l.name).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Dur("latency", latency).
		Msg("llm request")
}

// transcript renders req as labelled blocks for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.JSON {
		b.WriteString("[response_format: json_object]\n")
	}
	return b.String()
}
