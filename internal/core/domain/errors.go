package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound       = errors.New("clock event not found")
	ErrWorkerNotFound      = errors.New("worker not found")
	ErrSiteNotFound        = errors.New("site not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrWorkerNotIdentified = errors.New("worker not identified")
	ErrDuplicateScan       = errors.New("scan already processed")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrValidation          = errors.New("validation failed")
)

// ValidationError reports a missing or malformed input. It is always raised
// before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CascadeInconsistencyError is returned when the second write of a two-step
// cascade fails after the first one was applied.
type CascadeInconsistencyError struct {
	Op             string
	AppliedEventID string
	FailedEventID  string
	Err            error
}

func (e *CascadeInconsistencyError) Error() string {
	return fmt.Sprintf("%s: cascade left inconsistent (applied %s, failed %s): %v",
		e.Op, e.AppliedEventID, e.FailedEventID, e.Err)
}

func (e *CascadeInconsistencyError) Unwrap() error { return e.Err }
