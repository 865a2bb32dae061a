package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned by every operation until rows have been ingested.
	ErrNotLoaded = errors.New("no transactions loaded")

	// ErrMissingSource means the store had nothing to load, the ledger stays unloaded.
	ErrMissingSource = errors.New("transaction source not found")

	ErrNotFound   = errors.New("transaction not found")
	ErrValidation = errors.New("invalid transaction")
)

// ValidationError says which field was refused & why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
