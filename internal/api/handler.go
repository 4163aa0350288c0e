package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sumrise/sumrise/internal/problem"
	"github.com/sumrise/sumrise/internal/store"
)

// ProblemService is the subset of problem.Service the handlers need.
type ProblemService interface {
	Generate(ctx context.Context, problemType, difficulty string) (*problem.Generated, error)
	Grade(ctx context.Context, problemID, userWork, userAnswer string) (*problem.GradeResult, error)
	Problem(ctx context.Context, id string) (*store.Problem, error)
}

// ProblemHandler serves the problem endpoints.
type ProblemHandler struct {
	svc ProblemService
}

func NewProblemHandler(svc ProblemService) *ProblemHandler {
	return &ProblemHandler{svc: svc}
}

// Generate handles POST /api/v1/problems.
func (h *ProblemHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("generate: bad request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	gen, err := h.svc.Generate(c.Request.Context(), req.ProblemType, req.Difficulty)
	if err != nil {
		writeError(c, "generate", err)
		return
	}
	c.JSON(http.StatusCreated, gen)
}

// Get handles GET /api/v1/problems/:id. Only the public view is returned.
func (h *ProblemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.svc.Problem(c.Request.Context(), id)
	if err != nil {
		writeError(c, "get", err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Unknown problem id", Details: []string{id}})
		return
	}
	c.JSON(http.StatusOK, problem.Generated{ID: rec.ID, DisplayText: rec.DisplayText})
}

// Grade handles POST /api/v1/problems/:id/grade.
func (h *ProblemHandler) Grade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("grade: bad request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	res, err := h.svc.Grade(c.Request.Context(), c.Param("id"), req.UserWork, req.UserAnswer)
	if err != nil {
		writeError(c, "grade", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError maps a service error to its HTTP status.
func writeError(c *gin.Context, op string, err error) {
	kind := problem.Classify(err)

	var status int
	var msg string
	switch kind {
	case problem.KindUnknownProblem:
		status, msg = http.StatusNotFound, "Unknown problem id"
	case problem.KindGateway:
		status, msg = http.StatusBadGateway, "Model gateway unavailable"
	case problem.KindMalformed:
		status, msg = http.StatusBadGateway, "Model returned a malformed response"
	default:
		status, msg = http.StatusInternalServerError, "Internal error"
	}

	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.Err(err).Str("op", op).Str("kind", kind.String()).Int("status", status).Msg("request failed")

	c.JSON(status, ErrorResponse{Message: msg, Details: []string{err.Error()}})
}
