// Package fingerprint derives a deterministic cache key from a request to an
// expensive computation.
//
// A request is described by its primary input (the prompt, query, or payload
// string) and an optional map of options that influence the result (model
// name, temperature, rendering flags, and so on). Both are folded into a
// SHA-256 digest so that logically identical requests always map to the same
// 32-byte key, regardless of map iteration order or call site.
//
// # Canonical form
//
// The digest input is the primary string, an underscore separator, and the
// options encoded as JSON. Go's JSON encoder writes map keys in sorted order
// at every nesting level, which makes the encoding canonical: two maps with
// equal contents produce identical bytes. A nil options map is treated as an
// empty one.
//
// Values that JSON cannot encode (channels, functions, NaN) leave the request
// identity undefined, so Derive reports ErrUnsupportedValue instead of
// guessing. Callers must surface that error rather than treat it as a cache
// miss.
//
// # Usage
//
//	key, err := fingerprint.Derive("summarize this document", map[string]any{
//		"model":       "gpt-4",
//		"temperature": 0.2,
//	})
//	if err != nil {
//		return err
//	}
//	log.Printf("cache key: %s", key)
//
// Keys are comparable values and can be used directly as map keys. String
// renders a key as 64 lowercase hex characters; ParseKey reverses it for
// keys arriving over the wire (HTTP parameters, persisted records).
package fingerprint
