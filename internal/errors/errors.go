package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for different categories
var (
	// ErrNotFound - a named resource does not exist (unknown tool, unknown model)
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput - malformed or incomplete tool arguments
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient - network or provider failure worth retrying
	ErrTransient = errors.New("transient error")

	// ErrMaxRounds - the tool-call loop exceeded its round ceiling
	ErrMaxRounds = errors.New("max tool rounds reached")

	// ErrInternal - anything else
	ErrInternal = errors.New("internal error")
)

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if error belongs to a specific category
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// NotFound wraps a message as not found
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps a message as invalid input
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Transient wraps a message as transient
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// Internal wraps a message as internal
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}
