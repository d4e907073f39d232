package persist

import "errors"

var (
	// ErrInvalidConfig indicates an unusable wrapper or store setup.
	ErrInvalidConfig = errors.New("invalid persistence configuration")

	// ErrMalformedRecord indicates stored data that cannot be decoded into
	// a Record, e.g. a key of the wrong length or a non-numeric timestamp.
	ErrMalformedRecord = errors.New("malformed persistence record")
)
