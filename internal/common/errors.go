// Package common defines shared constants and sentinel errors used across
// the PetAlert client. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Session errors.
	ErrNotLoggedIn = errors.New("not logged in")

	// Validation errors (client input, caught before any network call).
	ErrValidation = errors.New("validation error")

	// Storage errors.
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when client-side validation rejects input.
// Its Error text is human-readable and safe to show to the user.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
