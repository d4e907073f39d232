package cache

import "errors"

// Package-level error definitions for cache operations.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownPolicy indicates that an eviction policy name is not one of
	// "lru", "lfu", or "fifo".
	ErrUnknownPolicy = errors.New("unknown eviction policy")

	// ErrExpiredEntry indicates an attempt to restore an entry whose TTL
	// window has already passed.
	ErrExpiredEntry = errors.New("entry already expired")

	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)
