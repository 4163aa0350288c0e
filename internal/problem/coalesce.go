package problem

import "strings"

// coalesce returns the first value among keys that is a string with
// non-whitespace content. The value is returned untrimmed.
func coalesce(payload map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := payload[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// coalesceDefault is coalesce with a fallback for when no key matches.
func coalesceDefault(payload map[string]any, def string, keys ...string) string {
	if s := coalesce(payload, keys...); s != "" {
		return s
	}
	return def
}

// normalizeCorrect accepts a JSON bool or the strings "true"/"false".
// Anything else is false.
func normalizeCorrect(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

func normalizeFeedback(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// normalizeHint passes a non-empty string hint through unchanged.
func normalizeHint(v any) *string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func normalizeGrade(problemID string, payload map[string]any) *GradeResult {
	return &GradeResult{
		ProblemID: problemID,
		Correct:   normalizeCorrect(payload[keyCorrect]),
		Feedback:  normalizeFeedback(payload[keyFeedback]),
		Hint:      normalizeHint(payload[keyHint]),
	}
}
