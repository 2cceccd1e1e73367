// Package apperr defines the error kinds shared by the repositories, use cases
// and command handlers. Callers test for them with errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by mutations that address a missing row.
	// Single-row lookups report absence as a nil record instead.
	ErrNotFound = errors.New("record not found")

	// ErrConflict wraps unique / primary key constraint violations.
	ErrConflict = errors.New("constraint violation")

	// ErrUnsupported marks operations the configured backend cannot perform.
	ErrUnsupported = errors.New("operation not supported")

	// ErrForbidden is returned when the signed in user lacks the admin role.
	ErrForbidden = errors.New("admin role required")

	// ErrUnauthenticated means no user is signed in.
	ErrUnauthenticated = errors.New("not signed in")
)

// NotFound wraps ErrNotFound with the entity name and id.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError collects field level failures found at the input boundary.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
