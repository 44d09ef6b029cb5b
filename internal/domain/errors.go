package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Layer-specific sentinels wrap these,
// so handlers can map any error with errors.Is.
var (
	// ErrValidation malformed input: bad interval, non-positive duration, missing stage data
	ErrValidation = errors.New("validation error")

	// ErrConflict overlapping appointment, block or time-off
	ErrConflict = errors.New("scheduling conflict")

	// ErrInvalidTransition lifecycle transition from an incompatible state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound referenced staff, service or appointment does not exist
	ErrNotFound = errors.New("not found")
)

// ConflictError carries the concrete overlapping items.
type ConflictError struct {
	Message   string
	Conflicts []Conflict
}

// NewConflictError builds a ConflictError
func NewConflictError(message string, conflicts []Conflict) *ConflictError {
	return &ConflictError{Message: message, Conflicts: conflicts}
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return fmt.Sprintf("%s: %s", ErrConflict.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%d conflicting items)", ErrConflict.Error(), e.Message, len(e.Conflicts))
}

// Unwrap makes errors.Is(err, ErrConflict) work
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ConflictsFromError extracts conflicting items from an error chain
func ConflictsFromError(err error) ([]Conflict, bool) {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.Conflicts, true
	}
	return nil, false
}
