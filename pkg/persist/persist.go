package persist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

// Record is one durable cache entry. Stores persist CreatedAt as a unix
// timestamp, so sub-second precision is not preserved.
type Record struct {
	Key       fingerprint.Key
	Value     []byte
	CreatedAt time.Time
}

// Store is a durable backend for cache records. Writing an existing key
// overwrites it. Implementations must be safe for concurrent use.
type Store interface {
	// Write stores the record, replacing any record with the same key.
	Write(ctx context.Context, rec Record) error
	// Read returns the record for the key and whether it exists.
	Read(ctx context.Context, key fingerprint.Key) (Record, bool, error)
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, key fingerprint.Key) (bool, error)
	// All returns every stored record.
	All(ctx context.Context) ([]Record, error)
	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)
	// Close releases backend resources held by the store.
	Close() error
}

// Marshaler converts cached values to and from their durable byte form.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSONMarshaler stores values as JSON. It is the default codec of
// Persistent and covers strings, maps, and plain structs.
type JSONMarshaler[V any] struct{}

// Marshal implements Marshaler.
func (JSONMarshaler[V]) Marshal(v V) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Marshaler.
func (JSONMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	err := json.Unmarshal(data, &v)
	return v, err
}
