package fingerprint

import "errors"

// Package-level error definitions for key derivation.
var (
	// ErrUnsupportedValue indicates that an options map contains a value the
	// canonical encoding cannot represent (channels, functions, NaN).
	ErrUnsupportedValue = errors.New("unsupported option value")

	// ErrInvalidKey indicates that a key string is not 64 hexadecimal characters.
	ErrInvalidKey = errors.New("invalid key encoding")
)
