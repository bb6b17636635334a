package domain

import "errors"

// Closed error taxonomy. Every command precondition failure maps to exactly
// one of these, so callers can distinguish not-found from validation failures
// without string matching.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrVersionConflict = errors.New("aggregate version conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownEvent    = errors.New("unknown event type")
)
