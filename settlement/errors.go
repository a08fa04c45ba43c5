package settlement

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownStrategy = errors.New("unknown settlement strategy")
	ErrNoConsumers     = errors.New("no consumers selected")
	ErrSplitMismatch   = errors.New("split values don't match consumers")
	ErrSplitTotal      = errors.New("split values don't add up")
)

// ValidationError lists every problem found in an expense.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid expense: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
