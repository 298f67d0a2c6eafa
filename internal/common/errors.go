// Package common defines shared constants and sentinel errors used across
// the resource mobilization platform. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks connectivity or timeout failures against the
	// document store. Read paths fall back to the in-memory dataset on it;
	// write paths surface it to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStorage marks a failed object-storage put or delete. A metadata
	// write must never be considered successful after it.
	ErrStorage = errors.New("object storage error")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries field-level detail for malformed input. It wraps
// ErrValidation so errors.Is(err, ErrValidation) matches.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
