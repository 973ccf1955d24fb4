package domain

import "errors"

// Error kinds. Every layer wraps one of these with %w so callers can classify
// a failure with errors.Is regardless of where it was raised.
var (
	// ErrValidation malformed input: missing field, date in the past, end before start
	ErrValidation = errors.New("validation error")

	// ErrConflict transition against an invalid or already-claimed state
	ErrConflict = errors.New("conflict")

	// ErrNotFound referenced request, booking or availability day does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden actor attempts a transition reserved for another role
	ErrForbidden = errors.New("authorization error")
)
