package config

import "errors"

// Domain errors for configuration handling.
var (
	// ErrConfigNotFound is returned when a definition file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat is returned when a definition cannot be parsed.
	ErrInvalidFormat = errors.New("invalid config format")

	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed is returned when a definition fails validation.
	ErrValidationFailed = errors.New("config validation failed")

	// ErrUnsupportedVersion is returned for unknown schema versions.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrMissingEnvVar is returned when a required environment variable
	// is not set.
	ErrMissingEnvVar = errors.New("missing environment variable")
)
