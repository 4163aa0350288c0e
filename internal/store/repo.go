package store

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateID is returned by ProblemRepo.Put when a record with the same
// ID already exists. Stores never overwrite or reuse an ID.
var ErrDuplicateID = errors.New("problem id already exists")

// Problem is the server-held record of a generated problem: the text shown
// to the student plus the hidden references used for grading.
// Records are immutable once stored.
type Problem struct {
	ID          string    `json:"id"`
	DisplayText string    `json:"display_text"`
	Solution    string    `json:"solution"`
	FinalAnswer string    `json:"final_answer"`
	Rubric      string    `json:"rubric"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic"`
	Difficulty  string    `json:"difficulty"`
	Contract    string    `json:"contract_version"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProblemRepo stores problem records keyed by ID.
// Implementations must be safe for concurrent use.
type ProblemRepo interface {
	// Put stores a new record. Returns ErrDuplicateID if the ID is taken.
	Put(ctx context.Context, p *Problem) error

	// Get returns the record with the given ID, or nil if none exists.
	Get(ctx context.Context, id string) (*Problem, error)

	// List returns up to limit records, newest first (0 = unlimited).
	List(ctx context.Context, limit int) ([]*Problem, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo records and queries LLM gateway calls.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns the event with the given ID, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// LLMUsageStats is aggregated usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage is aggregated usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}
