package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	// ErrNotFound is returned by unique-key finders when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a write would violate a uniqueness
	// invariant (lookup name, or (parent_id, iso3_language) pair).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConflict is returned when an update carries a stale version counter.
	// The caller is expected to refresh and retry.
	ErrConflict = errors.New("version conflict")

	// ErrIntegrity is returned when a supposedly-unique lookup matches more
	// than one row, or the one-default-per-parent invariant is violated.
	ErrIntegrity = errors.New("integrity violation")

	ErrValidation = errors.New("validation error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
