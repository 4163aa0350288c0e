package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProblem() map[string]any {
	return map[string]any{
		"title":            "Linear Equation",
		"topic":            "Algebra",
		"difficulty":       "easy",
		"display_md":       "Solve for $x$: $2x + 3 = 7$",
		"solution_md":      "$2x = 4$, so $x = 2$",
		"final_answer_tex": "$x=2$",
		"rubric_md":        "- Isolate x",
	}
}

func TestValidateProblem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := Validate(validProblem(), KindProblem)
		assert.NotNil(t, errs)
		assert.Empty(t, errs)
	})

	t.Run("collects every violation", func(t *testing.T) {
		p := validProblem()
		p["difficulty"] = "impossible"
		p["title"] = 42
		delete(p, "rubric_md")

		errs := Validate(p, KindProblem)
		require.Len(t, errs, 3)
		joined := strings.Join(errs, "\n")
		assert.Contains(t, joined, "/difficulty")
		assert.Contains(t, joined, "/title")
		assert.Contains(t, joined, "rubric_md")
	})

	t.Run("one message per missing property", func(t *testing.T) {
		errs := Validate(map[string]any{"display_md": "What is 2+2?"}, KindProblem)
		require.Len(t, errs, 6)
		for _, key := range []string{"title", "topic", "difficulty", "solution_md", "final_answer_tex", "rubric_md"} {
			assert.Contains(t, errs, fmt.Sprintf("/: missing property '%s'", key))
		}

		err := Check(map[string]any{"display_md": "What is 2+2?"}, KindProblem)
		var violation *ErrSchemaViolation
		require.ErrorAs(t, err, &violation)
		assert.Contains(t, errs, violation.Message)
	})

	t.Run("non-object", func(t *testing.T) {
		errs := Validate([]string{"a"}, KindProblem)
		assert.NotEmpty(t, errs)
	})
}

func TestValidateGrade(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		valid   bool
	}{
		{"null hint", map[string]any{"correct": true, "feedback": "ok", "hint": nil}, true},
		{"string hint", map[string]any{"correct": false, "feedback": "no", "hint": "check signs"}, true},
		{"struct payload", struct {
			ProblemID string  `json:"problem_id"`
			Correct   bool    `json:"correct"`
			Feedback  string  `json:"feedback"`
			Hint      *string `json:"hint"`
		}{"p1", true, "fine", nil}, true},
		{"string correct", map[string]any{"correct": "true", "feedback": "ok"}, false},
		{"missing feedback", map[string]any{"correct": true}, false},
		{"numeric hint", map[string]any{"correct": false, "feedback": "", "hint": 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.payload, KindGrade)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	errs := Validate(validProblem(), Kind("lesson"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown schema kind")

	err := Check(validProblem(), Kind("lesson"))
	require.Error(t, err)
}

func TestCheckFailFast(t *testing.T) {
	require.NoError(t, Check(validProblem(), KindProblem))

	p := validProblem()
	p["difficulty"] = "impossible"
	p["title"] = 42

	err := Check(p, KindProblem)
	require.Error(t, err)

	var violation *ErrSchemaViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, KindProblem, violation.Kind)
	assert.NotEmpty(t, violation.Message)
	assert.Contains(t, Validate(p, KindProblem), violation.Message)
}

func TestSchemaCompiledOnce(t *testing.T) {
	first, err := getCompiledSchema(KindGrade)
	require.NoError(t, err)
	second, err := getCompiledSchema(KindGrade)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestUnmarshalableValue(t *testing.T) {
	errs := Validate(map[string]any{"bad": make(chan int)}, KindGrade)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "normalize")
}
