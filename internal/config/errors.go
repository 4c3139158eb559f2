// Package config provides presets, run files and settings for staircase.
package config

import "errors"

// Sentinel errors for configuration parsing.
var (
	// ErrInvalidPreset indicates an unknown preset name was provided.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrInvalidDownUp indicates a down/up rule that is not two positive integers.
	ErrInvalidDownUp = errors.New("invalid down/up rule")

	// ErrDuplicateCondition indicates two conditions in a run file share a name.
	ErrDuplicateCondition = errors.New("duplicate condition name")
)
