package config

import "errors"

var (
	// ErrNilConfig is returned when Load receives a nil destination.
	ErrNilConfig = errors.New("config: nil destination")

	// ErrParseFailed wraps env parsing failures (missing required variables,
	// type mismatches, malformed values).
	ErrParseFailed = errors.New("config: parse failed")
)
