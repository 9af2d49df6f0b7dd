// internal/util/errors.go
package util

import (
	"errors"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input provided")
	ErrStorage      = errors.New("storage unavailable")
)

// IsError reports whether err matches target in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// FieldError describes a validation failure on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is a validation error carrying field-level detail.
// It unwraps to ErrInvalidInput so callers can match it with errors.Is.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, f := range fe {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a single-field validation error.
func Invalid(field, message string) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}
