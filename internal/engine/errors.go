package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks inputs that violate the engine contract.
	ErrInvalidInput = errors.New("invalid input")
	// ErrReference marks identifiers that do not resolve within the snapshot.
	ErrReference = errors.New("unresolved reference")
)

// InvalidInputError describes a rejected input value.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// ReferenceError reports an identifier missing from the supplied snapshot.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: unknown %s %q", ErrReference.Error(), e.Kind, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

func invalidf(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
