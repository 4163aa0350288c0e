// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry all SumRise collectors are registered with.
var Registry = prometheus.NewRegistry()

var (
	llmRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "sumrise",
		Name:      "llm_requests_total",
		Help:      "LLM gateway calls by provider, purpose and outcome.",
	}, []string{"provider", "purpose", "success"})

	llmLatency = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sumrise",
		Name:      "llm_request_duration_seconds",
		Help:      "LLM gateway call latency.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"provider", "purpose"})

	problemsGenerated = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "sumrise",
		Name:      "problems_generated_total",
		Help:      "Problem records created.",
	})

	gradings = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "sumrise",
		Name:      "gradings_total",
		Help:      "Grading results returned, by verdict.",
	}, []string{"correct"})

	schemaViolations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "sumrise",
		Name:      "schema_violations_total",
		Help:      "Payloads that did not conform to their JSON schema.",
	}, []string{"kind"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveLLMRequest records one gateway call.
func ObserveLLMRequest(provider, purpose string, success bool, latency time.Duration) {
	llmRequests.WithLabelValues(provider, purpose, strconv.FormatBool(success)).Inc()
	llmLatency.WithLabelValues(provider, purpose).Observe(latency.Seconds())
}

// ProblemGenerated counts a stored problem record.
func ProblemGenerated() {
	problemsGenerated.Inc()
}

// Graded counts a grading result.
func Graded(correct bool) {
	gradings.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// SchemaViolation counts a payload that failed schema validation.
func SchemaViolation(kind string) {
	schemaViolations.WithLabelValues(kind).Inc()
}
