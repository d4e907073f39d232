package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Size is the length of a derived key in bytes.
const Size = sha256.Size

// Key identifies a cached computation. Keys are comparable and usable as
// map keys directly.
type Key [Size]byte

// String returns the key as 64 lowercase hexadecimal characters.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns the key as a freshly allocated byte slice.
func (k Key) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, k[:])
	return b
}

// MarshalText implements encoding.TextMarshaler, rendering the key in its
// hexadecimal form so keys serialize as strings in JSON documents and map
// keys.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey decodes the hexadecimal form produced by String.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != Size*2 {
		return k, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidKey, Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	copy(k[:], b)
	return k, nil
}

// Derive computes the key for a request described by its primary input and
// an options map. Equal logical requests yield equal keys: map iteration
// order does not matter because the canonical encoding sorts keys at every
// level. A nil options map is equivalent to an empty one.
//
// Values the canonical encoding cannot represent cause ErrUnsupportedValue;
// the caller must propagate it rather than fall through to a miss, since the
// request identity is undefined.
func Derive(primary string, options map[string]any) (Key, error) {
	if options == nil {
		options = map[string]any{}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}

	h := sha256.New()
	h.Write([]byte(primary))
	h.Write([]byte{'_'})
	h.Write(encoded)

	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// MustDerive is like Derive but panics on error. Intended for static inputs
// known to serialize, such as fixtures and examples.
func MustDerive(primary string, options map[string]any) Key {
	k, err := Derive(primary, options)
	if err != nil {
		panic(err)
	}
	return k
}
