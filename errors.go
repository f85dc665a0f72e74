package walkthrough

import "errors"

// Common errors used throughout the walkthrough packages
var (
	// Parser errors
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrEmptyContent       = errors.New("empty content")

	// Persistence errors
	ErrInvalidDocument    = errors.New("invalid walkthrough document")
	ErrUnsupportedVersion = errors.New("unsupported walkthrough schema version")

	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
)
