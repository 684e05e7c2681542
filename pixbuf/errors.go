package pixbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTooLarge reports an image whose dimensions exceed the configured Limits.
	ErrTooLarge = errors.New("image too large")
)

// InvalidInputError describes a buffer that cannot be processed.
type InvalidInputError struct {
	Arg    string // name of the offending argument, e.g. "content"
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Arg, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }
