// Package apperrors defines the error taxonomy shared by services and
// handlers. Services return these sentinels (usually wrapped with context);
// handlers map them to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation or duplicate request.
	ErrConflict = errors.New("conflict")
	// ErrCapacityExceeded marks an assignment that would push a room past capacity.
	ErrCapacityExceeded = errors.New("room capacity exceeded")
	// ErrUnauthorized marks a missing/invalid credential or insufficient role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependency marks a database or gateway failure. Retryable.
	ErrDependency = errors.New("dependency failure")
)

// Validationf wraps ErrValidation with a human-readable message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with the entity description.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// Conflictf wraps ErrConflict with the collision description.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// Dependencyf wraps ErrDependency around an underlying store/gateway error.
func Dependencyf(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDependency, op, err)
}
