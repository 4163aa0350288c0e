package api

// GenerateRequest is the body of POST /api/v1/problems.
type GenerateRequest struct {
	ProblemType string `json:"problem_type" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required"`
}

// GradeRequest is the body of POST /api/v1/problems/:id/grade. Both fields
// may be empty.
type GradeRequest struct {
	UserWork   string `json:"user_work"`
	UserAnswer string `json:"user_answer"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
