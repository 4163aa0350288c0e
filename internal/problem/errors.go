package problem

import (
	"errors"

	"github.com/sumrise/sumrise/internal/llm"
)

// ErrUnknownProblemID is returned by Grade when no record has the given ID.
var ErrUnknownProblemID = errors.New("unknown problem id")

// ErrorKind classifies an operation failure for presentation layers.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnknownProblem
	KindGateway
	KindMalformed
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnknownProblem:
		return "unknown_problem_id"
	case KindGateway:
		return "gateway_unavailable"
	case KindMalformed:
		return "malformed_response"
	default:
		return "internal"
	}
}

// Classify maps an error returned by Service to its kind.
func Classify(err error) ErrorKind {
	var gw *llm.ErrGatewayUnavailable
	var mal *llm.ErrMalformedResponse
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnknownProblemID):
		return KindUnknownProblem
	case errors.As(err, &mal):
		return KindMalformed
	case errors.As(err, &gw):
		return KindGateway
	default:
		return KindInternal
	}
}
