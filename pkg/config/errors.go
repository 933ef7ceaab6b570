package config

import "errors"

// Sentinel errors for configuration failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidConfig indicates a flag value outside its valid range
	// or a conflicting combination of options.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired indicates a required flag was not provided.
	ErrMissingRequired = errors.New("config: missing required field")
)
