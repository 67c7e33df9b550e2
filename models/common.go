package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors shared by repositories, services and controllers
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation error")
)

// ConflictError reports which unique field of a kind was already taken
type ConflictError struct {
	Kind  Kind
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, ErrConflict)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Field, ErrConflict)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

func (ve ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(ve.GetMessages(), ", ")
}

func (ve ValidationErrors) Unwrap() error { return ErrValidation }

// NewValidationErrors builds ValidationErrors from plain messages, as returned
// by the form Validate methods
func NewValidationErrors(field string, messages []string) ValidationErrors {
	errs := make(ValidationErrors, len(messages))
	for i, msg := range messages {
		errs[i] = ValidationError{Field: field, Message: msg}
	}
	return errs
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// ParseTimestamp accepts RFC 3339 timestamps and plain dates, in UTC
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
