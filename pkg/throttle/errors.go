package throttle

import "errors"

// Package-level error definitions for throttle operations.
var (
	// Configuration errors, raised synchronously at setup and fatal to it.
	ErrInvalidRate      = errors.New("invalid rate")
	ErrInvalidBurst     = errors.New("invalid burst")
	ErrNilStore         = errors.New("store is required")
	ErrInvalidStoreSize = errors.New("invalid store size")

	// Per-request errors.
	ErrInvalidCost = errors.New("invalid cost")
	ErrStoreGet    = errors.New("store get failed")
	ErrStoreSet    = errors.New("store set failed")
	ErrStoreUpdate = errors.New("store update failed")

	// ErrResetUnsupported is returned by Limiter.Reset when the store does
	// not implement the Resetter capability.
	ErrResetUnsupported = errors.New("store does not support reset")
)
