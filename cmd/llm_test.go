package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumrise/sumrise/internal/store"
)

func TestEventTable(t *testing.T) {
	out := eventTable([]store.LLMRequestEventRecord{
		{ID: 7, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gpt-4o-mini", Purpose: "problem-gen", InputTokens: 12, OutputTokens: 34, LatencyMs: 56, Success: true,
		}},
		{ID: 8, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gpt-4o-mini", Purpose: "problem-grade",
		}},
	})

	for _, want := range []string{"Purpose", "problem-gen", "problem-grade", "gpt-4o-mini", "34", "yes", "no"} {
		assert.Contains(t, out, want)
	}
}

func TestPurposeTableTotals(t *testing.T) {
	out := purposeTable([]store.LLMUsageStats{
		{Purpose: "problem-gen", Calls: 2, InputTokens: 100, OutputTokens: 200, AvgLatencyMs: 30},
		{Purpose: "problem-grade", Calls: 1, InputTokens: 50, OutputTokens: 20, AvgLatencyMs: 10},
	})

	assert.Contains(t, out, "total")
	assert.Contains(t, out, "150")
	assert.Contains(t, out, "220")
}

func TestCostTable(t *testing.T) {
	t.Run("all priced", func(t *testing.T) {
		out, unpriced := costTable([]store.LLMModelUsage{
			{Model: "gpt-4o-mini", Calls: 1, InputTokens: 1_000_000, OutputTokens: 0},
		})
		assert.Empty(t, unpriced)
		assert.Contains(t, out, "$0.15")
		assert.NotContains(t, out, "partial")
	})

	t.Run("unknown model", func(t *testing.T) {
		out, unpriced := costTable([]store.LLMModelUsage{
			{Model: "gpt-4o-mini", Calls: 1, InputTokens: 10, OutputTokens: 10},
			{Model: "local-llama", Calls: 3},
		})
		assert.Equal(t, []string{"local-llama"}, unpriced)
		assert.Contains(t, out, "total (partial)")
		assert.Contains(t, out, "?")
	})
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.0012", formatUSD(0.00123))
	assert.Equal(t, "$1.50", formatUSD(1.5))
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	writeEvent(&buf, &store.LLMRequestEventRecord{
		ID:        3,
		Timestamp: time.Now(),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      "problem-grade",
			ErrorMessage: "model returned malformed JSON",
			RequestBody:  "[user]\nhello\n\n",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Purpose:  problem-grade")
	assert.Contains(t, out, "Error:    model returned malformed JSON")
	assert.Contains(t, out, "--- request ---\n[user]\nhello\n")
	assert.Contains(t, out, "--- response ---\n(not captured)")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"calls": 2}))
	assert.Equal(t, "{\n  \"calls\": 2\n}\n", buf.String())
}

func TestBuildVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", buildVersion())

	version = ""
	assert.False(t, strings.TrimSpace(buildVersion()) == "")
}
