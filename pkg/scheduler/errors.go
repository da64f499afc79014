package scheduler

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every error that rejects a plan request
var ErrInvalidInput = errors.New("invalid input")

// InputError names the request field that failed validation
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
