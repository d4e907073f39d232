package cache

import (
	"fmt"
	"log/slog"
	"time"
)

type config struct {
	maxSize       int
	defaultTTL    time.Duration
	policy        Policy
	sweepInterval time.Duration
	observer      Observer
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		maxSize:    DefaultMaxSize,
		defaultTTL: DefaultTTL,
		policy:     LRU{},
	}
}

func (c config) validate() error {
	if c.maxSize < 0 {
		return fmt.Errorf("%w: max size must not be negative, got %d", ErrInvalidConfig, c.maxSize)
	}
	if c.defaultTTL <= 0 {
		return fmt.Errorf("%w: default TTL must be positive, got %s", ErrInvalidConfig, c.defaultTTL)
	}
	if c.policy == nil {
		return fmt.Errorf("%w: eviction policy must not be nil", ErrInvalidConfig)
	}
	if c.sweepInterval < 0 {
		return fmt.Errorf("%w: sweep interval must not be negative, got %s", ErrInvalidConfig, c.sweepInterval)
	}
	return nil
}

// Option configures a Cache.
type Option func(*config)

// WithMaxSize sets the maximum number of resident entries. Zero disables
// the capacity bound entirely.
func WithMaxSize(n int) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithDefaultTTL sets the TTL applied when Set is called with a zero TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.defaultTTL = ttl
	}
}

// WithPolicy sets the eviction policy. The default is LRU.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithSweepInterval enables a background goroutine that removes expired
// entries on the given interval. Zero (the default) disables it; Close
// stops it.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *config) {
		c.sweepInterval = interval
	}
}

// WithObserver forwards per-request observations (outcome, latency, size)
// to the given observer, typically a monitor.Monitor.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithLogger sets the logger for eviction, sweep, and degradation events.
// Without it the cache stays silent.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		c.logger = log
	}
}
