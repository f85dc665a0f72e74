package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist   = errors.New("input file does not exist")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrUnsupportedDocument = errors.New("unsupported document file extension")
	ErrValidationFailed    = errors.New("walkthrough has structure errors")
	ErrInvalidColor        = errors.New("invalid hex color")
)
