// Package problem generates math problems through the model gateway and
// grades student submissions against the hidden reference kept in the store.
package problem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sumrise/sumrise/internal/llm"
	"github.com/sumrise/sumrise/internal/metrics"
	"github.com/sumrise/sumrise/internal/schema"
	"github.com/sumrise/sumrise/internal/store"
)

// Config holds sampling parameters for the two model calls.
type Config struct {
	Generate llm.JSONOptions
	Grade    llm.JSONOptions
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	grade := llm.DefaultJSONOptions()
	grade.MaxTokens = 512
	return Config{
		Generate: llm.DefaultJSONOptions(),
		Grade:    grade,
	}
}

// Service implements problem generation and grading.
type Service struct {
	provider llm.Provider
	repo     store.ProblemRepo
	cfg      Config

	newID func() string
	now   func() time.Time
}

// NewService creates a Service backed by the given gateway and store.
func NewService(provider llm.Provider, repo store.ProblemRepo, cfg Config) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Generate asks the model for a new problem, stores the full record and
// returns only its ID and display text. problemType and difficulty are
// passed to the model verbatim.
func (s *Service) Generate(ctx context.Context, problemType, difficulty string) (*Generated, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGenerate)

	userMsg, err := buildGeneratePrompt(problemType, difficulty)
	if err != nil {
		return nil, fmt.Errorf("build generation prompt: %w", err)
	}

	payload, err := llm.CompleteJSON(ctx, s.provider, generatorSystemPrompt, userMsg, s.cfg.Generate)
	if err != nil {
		return nil, fmt.Errorf("generate problem: %w", err)
	}

	if violations := schema.Validate(payload, schema.KindProblem); len(violations) > 0 {
		metrics.SchemaViolation(string(schema.KindProblem))
		log.Warn().Strs("violations", violations).Msg("generated problem does not match contract")
	}

	rec := &store.Problem{
		ID:          s.newID(),
		DisplayText: coalesce(payload, keyDisplay, keyDisplayShort),
		Solution:    coalesce(payload, keySolution, keySolutionShort),
		FinalAnswer: coalesce(payload, keyFinalAnswer, keyFinalAnswerShort),
		Rubric:      coalesce(payload, keyRubric, keyRubricShort),
		Title:       coalesce(payload, keyTitle),
		Topic:       coalesceDefault(payload, problemType, keyTopic),
		Difficulty:  coalesceDefault(payload, difficulty, keyDifficulty),
		Contract:    ContractVersion,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store problem: %w", err)
	}

	metrics.ProblemGenerated()
	log.Debug().
		Str("problem_id", rec.ID).
		Str("topic", rec.Topic).
		Str("difficulty", rec.Difficulty).
		Msg("problem generated")

	return &Generated{ID: rec.ID, DisplayText: rec.DisplayText}, nil
}

// Grade judges a student's work and answer against the stored reference.
// It fails with ErrUnknownProblemID before any model call if the ID is not
// in the store. The stored record is never modified.
func (s *Service) Grade(ctx context.Context, problemID, userWork, userAnswer string) (*GradeResult, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGrade)

	rec, err := s.repo.Get(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProblemID, problemID)
	}

	userMsg, err := buildGradePrompt(gradePromptData{
		Solution:    rec.Solution,
		FinalAnswer: rec.FinalAnswer,
		Rubric:      rec.Rubric,
		Work:        userWork,
		Answer:      userAnswer,
	})
	if err != nil {
		return nil, fmt.Errorf("build grading prompt: %w", err)
	}

	payload, err := llm.CompleteJSON(ctx, s.provider, graderSystemPrompt, userMsg, s.cfg.Grade)
	if err != nil {
		return nil, fmt.Errorf("grade problem: %w", err)
	}

	result := normalizeGrade(rec.ID, payload)

	if err := schema.Check(result, schema.KindGrade); err != nil {
		var violation *schema.ErrSchemaViolation
		if errors.As(err, &violation) {
			metrics.SchemaViolation(string(schema.KindGrade))
		}
		log.Warn().Err(err).Str("problem_id", rec.ID).Msg("grade result does not match contract")
	}

	metrics.Graded(result.Correct)
	log.Debug().
		Str("problem_id", rec.ID).
		Bool("correct", result.Correct).
		Msg("submission graded")

	return result, nil
}

// Problem returns the stored record for id, or nil if unknown. Used by
// operator tooling; never exposed over the public API.
func (s *Service) Problem(ctx context.Context, id string) (*store.Problem, error) {
	return s.repo.Get(ctx, id)
}

// Recent returns up to limit stored records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*store.Problem, error) {
	return s.repo.List(ctx, limit)
}
