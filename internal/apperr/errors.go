package apperr

import (
	"errors"
	"fmt"
)

// Session-level sentinels.
var (
	// ErrReplyOutstanding is returned when a user submits a new message
	// while the coach reply to the previous one is still in flight.
	ErrReplyOutstanding = errors.New("a coach reply is still outstanding for this session")

	// ErrFinalizeInFlight signals a duplicate finalize trigger. It is
	// absorbed by the session state machine and never surfaced to users.
	ErrFinalizeInFlight = errors.New("finalize already in progress")

	// ErrSessionNotFound is returned for operations on interviews with no
	// live session in memory.
	ErrSessionNotFound = errors.New("no live session for this interview")

	// ErrSessionConcluded is returned when a turn is submitted after the
	// session has left the live state.
	ErrSessionConcluded = errors.New("session is no longer accepting messages")
)

// ValidationError indicates malformed caller input, e.g. a missing field or
// an unknown category.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AgentError wraps a failure of the conversation agent during a live turn.
// It is recoverable: the user may resubmit the same message.
type AgentError struct {
	Err error
}

func (e *AgentError) Error() string { return "interview coach unavailable: " + e.Err.Error() }
func (e *AgentError) Unwrap() error { return e.Err }

// RequestError is an analysis failure at the transport level: the scoring
// capability could not be reached at all.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return "analysis request failed: " + e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// SchemaValidationError is an analysis failure where a response was
// received and parsed but does not match the report schema (missing
// required field, wrong type, score out of range).
type SchemaValidationError struct {
	Detail string
}

func (e *SchemaValidationError) Error() string {
	return "analysis response failed schema validation: " + e.Detail
}

// RefusalOrTimeoutError is an analysis failure where the upstream
// capability answered within its own failure semantics but produced no
// usable result (refusal, empty output, upstream-reported error).
type RefusalOrTimeoutError struct {
	Reason string
}

func (e *RefusalOrTimeoutError) Error() string {
	return "analysis produced no usable result: " + e.Reason
}

// IsAnalysisError reports whether err belongs to the analysis failure
// taxonomy (request, schema, refusal/timeout).
func IsAnalysisError(err error) bool {
	var reqErr *RequestError
	var schemaErr *SchemaValidationError
	var refusalErr *RefusalOrTimeoutError
	return errors.As(err, &reqErr) || errors.As(err, &schemaErr) || errors.As(err, &refusalErr)
}

// PersistenceError wraps a storage write failure during finalize.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %s", e.Op, e.Err.Error())
}
func (e *PersistenceError) Unwrap() error { return e.Err }
