package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryProblemRepo keeps problem records in a process-local map.
// Records live for the lifetime of the process.
type MemoryProblemRepo struct {
	mu       sync.RWMutex
	problems map[string]*Problem
}

// NewMemoryProblemRepo creates an empty in-memory problem store.
func NewMemoryProblemRepo() *MemoryProblemRepo {
	return &MemoryProblemRepo{problems: make(map[string]*Problem)}
}

func (r *MemoryProblemRepo) Put(_ context.Context, p *Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.problems[p.ID]; ok {
		return ErrDuplicateID
	}
	cp := *p
	r.problems[p.ID] = &cp
	return nil
}

func (r *MemoryProblemRepo) Get(_ context.Context, id string) (*Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.problems[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProblemRepo) List(_ context.Context, limit int) ([]*Problem, error) {
	r.mu.RLock()
	out := make([]*Problem, 0, len(r.problems))
	for _, p := range r.problems {
		cp := *p
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryEventRepo keeps LLM request events in memory.
type MemoryEventRepo struct {
	mu     sync.Mutex
	events []LLMRequestEventRecord
}

// NewMemoryEventRepo creates an empty in-memory event log.
func NewMemoryEventRepo() *MemoryEventRepo {
	return &MemoryEventRepo{}
}

func (r *MemoryEventRepo) AppendLLMRequest(_ context.Context, data LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, LLMRequestEventRecord{
		ID:                  len(r.events) + 1,
		Timestamp:           time.Now().UTC(),
		LLMRequestEventData: data,
	})
	return nil
}

func (r *MemoryEventRepo) QueryLLMEvents(_ context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []LLMRequestEventRecord
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if opts.Purpose != "" && e.Purpose != opts.Purpose {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryEventRepo) GetLLMEvent(_ context.Context, id int) (*LLMRequestEventRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 1 || id > len(r.events) {
		return nil, nil
	}
	e := r.events[id-1]
	return &e, nil
}

func (r *MemoryEventRepo) LLMUsageByPurpose(_ context.Context) ([]LLMUsageStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byPurpose := make(map[string]*LLMUsageStats)
	latency := make(map[string]int64)
	for _, e := range r.events {
		s, ok := byPurpose[e.Purpose]
		if !ok {
			s = &LLMUsageStats{Purpose: e.Purpose}
			byPurpose[e.Purpose] = s
		}
		s.Calls++
		s.InputTokens += e.InputTokens
		s.OutputTokens += e.OutputTokens
		latency[e.Purpose] += e.LatencyMs
	}

	out := make([]LLMUsageStats, 0, len(byPurpose))
	for p, s := range byPurpose {
		s.AvgLatencyMs = latency[p] / int64(s.Calls)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b LLMUsageStats) int { return strings.Compare(a.Purpose, b.Purpose) })
	return out, nil
}

func (r *MemoryEventRepo) LLMUsageByModel(_ context.Context) ([]LLMModelUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byModel := make(map[string]*LLMModelUsage)
	for _, e := range r.events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &LLMModelUsage{Model: e.Model}
			byModel[e.Model] = u
		}
		u.Calls++
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
	}

	out := make([]LLMModelUsage, 0, len(byModel))
	for _, u := range byModel {
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b LLMModelUsage) int { return strings.Compare(a.Model, b.Model) })
	return out, nil
}
