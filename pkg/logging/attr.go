package logging

import (
	"log/slog"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Key records a cache fingerprint under the key "key".
func Key(k fingerprint.Key) slog.Attr {
	return slog.String("key", k.String())
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Reason records why an entry left the cache under the key "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// Policy records an eviction policy name under the key "policy".
func Policy(name string) slog.Attr {
	return slog.String("policy", name)
}
