package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation error")
	ErrInvalidState   = errors.New("invalid state")
	ErrConflict       = errors.New("conflict")
	ErrStorage        = errors.New("storage failure")
	ErrPartialArchive = errors.New("partial archive")
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
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
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

// NewInvalidStateError reports that an entity exists but is not in a state
// that allows the requested transition.
func NewInvalidStateError(entity string, id uuid.UUID, current, required string) error {
	return fmt.Errorf("%s %s is %s, want %s: %w", entity, id, current, required, ErrInvalidState)
}

// PartialArchiveError is returned when the archive copy of an entity was
// written but the active row could not be deleted afterwards. The entity is
// then present in both stores until a reconciliation pass resolves it.
type PartialArchiveError struct {
	Entity    string
	ID        uuid.UUID
	ArchiveID uuid.UUID
	Err       error
}

func (e *PartialArchiveError) Error() string {
	return fmt.Sprintf("%s %s archived as %s but active row was not deleted: %v",
		e.Entity, e.ID, e.ArchiveID, e.Err)
}

func (e *PartialArchiveError) Unwrap() []error {
	return []error{ErrPartialArchive, e.Err}
}
