package adapt

import "errors"

// Sentinel errors for staircase configuration validation.
var (
	// ErrMissingOption indicates a mandatory option was not provided.
	ErrMissingOption = errors.New("missing mandatory option")

	// ErrOutOfRange indicates an option outside its valid range.
	ErrOutOfRange = errors.New("option out of range")
)
