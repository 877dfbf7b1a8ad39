package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrEventNotFound    = fmt.Errorf("%w: causality event", ErrNotFound)
	ErrProfileNotFound  = fmt.Errorf("%w: causality profile", ErrNotFound)
	ErrSnapshotNotFound = fmt.Errorf("%w: biometric snapshot", ErrNotFound)

	// Precondition errors: numeric callers passed data the analyzers cannot
	// honestly process. These are caller bugs, never coerced or padded over.
	ErrEmptySeries      = errors.New("empty series")
	ErrWindowTooLarge   = errors.New("window exceeds series length")
	ErrInvalidWindow    = errors.New("window must be positive")
	ErrShapeMismatch    = errors.New("series and flags lengths differ")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrValidation wraps every field-level validation failure
	ErrValidation = errors.New("validation failed")

	// Lifecycle errors
	ErrEventTerminal   = errors.New("event already in a terminal state")
	ErrMissingSnapshot = errors.New("snapshot required")
	ErrUnknownMetric   = errors.New("unknown metric kind")
	ErrUnknownDomain   = errors.New("unknown action domain")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewShapeError(dataLen, flagsLen int) error {
	return fmt.Errorf("%w: %d data points vs %d flag entries", ErrShapeMismatch, dataLen, flagsLen)
}

func NewWindowError(window, length int) error {
	return fmt.Errorf("%w: window %d over %d points", ErrWindowTooLarge, window, length)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrEmptySeries) ||
		errors.Is(err, ErrWindowTooLarge) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInsufficientData)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrEventTerminal) ||
		errors.Is(err, ErrMissingSnapshot)
}
