package problem

// Generated is what a client learns about a new problem. Solution, final
// answer and rubric stay in the store.
type Generated struct {
	ID          string `json:"id"`
	DisplayText string `json:"display_text"`
}

// GradeResult is the normalized outcome of one grading call. It is never
// stored.
type GradeResult struct {
	ProblemID string  `json:"problem_id"`
	Correct   bool    `json:"correct"`
	Feedback  string  `json:"feedback"`
	Hint      *string `json:"hint"`
}
