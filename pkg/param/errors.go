package param

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a name does not match any descriptor.
	ErrUnknownField = errors.New("param: unknown field")
	// ErrConstant is returned when assigning to a constant field.
	ErrConstant = errors.New("param: field is constant")
	// ErrInvalidValue is returned when a value fails the descriptor's checks.
	ErrInvalidValue = errors.New("param: invalid value")
	// ErrNotRenderable is returned when subscribing to a field without output
	// capability.
	ErrNotRenderable = errors.New("param: field is not renderable")
)

// FieldError attributes a failure to a single field.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Field)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidValue}
}
