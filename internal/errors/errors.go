// Package errors provides structured error types for staircase operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindConfig represents configuration validation errors.
	KindConfig ErrorKind = iota
	// KindInvalidTransition represents calls made on a run that has already stopped.
	KindInvalidTransition
	// KindInvariant represents a broken internal invariant, e.g. a non-positive
	// difference reaching threshold computation.
	KindInvariant
	// KindIO represents I/O errors.
	KindIO
	// KindParse represents run file or input parsing errors.
	KindParse
	// KindOperationFailed represents general operation failures.
	KindOperationFailed
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "Configuration error"
	case KindInvalidTransition:
		return "Invalid transition"
	case KindInvariant:
		return "Invariant violation"
	case KindIO:
		return "I/O error"
	case KindParse:
		return "Parse error"
	case KindOperationFailed:
		return "Operation failed"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// ConfigurationError describes a missing or out-of-range option.
type ConfigurationError struct {
	Field      string
	Reason     string
	Underlying error
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is a mandatory option to provide", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Underlying
}

// InvalidTransitionError is returned when a terminated run is driven further.
type InvalidTransitionError struct {
	Op     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s called after the run stopped (%s)", e.Op, e.Reason)
}

// CoreError is the main error type for staircase operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil && e.Underlying.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewMissingOptionError creates an error for an absent mandatory option.
func NewMissingOptionError(field string, sentinel error) *CoreError {
	cfgErr := &ConfigurationError{Field: field, Underlying: sentinel}
	return &CoreError{Kind: KindConfig, Message: cfgErr.Error(), Underlying: cfgErr}
}

// NewConstraintError creates an error for an option that violates a constraint.
func NewConstraintError(field, reason string, sentinel error) *CoreError {
	cfgErr := &ConfigurationError{Field: field, Reason: reason, Underlying: sentinel}
	return &CoreError{Kind: KindConfig, Message: cfgErr.Error(), Underlying: cfgErr}
}

// NewConfigError creates a configuration error that is not tied to one field.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewInvalidTransitionError creates an error for an operation on a stopped run.
func NewInvalidTransitionError(op, reason string) *CoreError {
	trErr := &InvalidTransitionError{Op: op, Reason: reason}
	return &CoreError{Kind: KindInvalidTransition, Message: trErr.Error(), Underlying: trErr}
}

// NewInvariantError creates a new invariant violation error.
func NewInvariantError(message string) *CoreError {
	return &CoreError{Kind: KindInvariant, Message: message}
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewParseError creates a new parsing error.
func NewParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindParse, Message: message, Underlying: underlying}
}

// NewOperationFailedError creates a new general operation failure error.
func NewOperationFailedError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindOperationFailed, Message: message, Underlying: underlying}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "run was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsConfig checks if the error is a configuration error.
func IsConfig(err error) bool {
	return IsKind(err, KindConfig)
}

// IsInvalidTransition checks if the error comes from driving a stopped run.
func IsInvalidTransition(err error) bool {
	return IsKind(err, KindInvalidTransition)
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// MissingField returns the option name carried by a ConfigurationError, if any.
func MissingField(err error) (string, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Field, true
	}
	return "", false
}
