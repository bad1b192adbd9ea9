// Package services contains business logic layers.
// Services are called by handlers and interact with storage.
package services

import (
	"errors"
	"fmt"
)

// Sentinel errors classify every failure a service can report. Handlers
// translate them to HTTP status codes in one place; anything not wrapping
// one of these is treated as a storage failure and kept off the wire.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrState          = errors.New("invalid state")
)

// Validationf wraps ErrValidation with a caller-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// Statef wraps ErrState with a caller-facing message.
func Statef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrState}, args...)...)
}
