package cache

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config declares the environment-driven cache settings for deployments
// that tune capacity and TTL without code changes.
type Config struct {
	MaxSize       int           `env:"CACHE_MAX_SIZE" envDefault:"1000"`       // Maximum resident entries; 0 disables the capacity bound
	DefaultTTL    time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"1h"`      // TTL applied when Set receives a zero TTL
	Policy        string        `env:"CACHE_EVICTION_POLICY" envDefault:"lru"` // One of "lru", "lfu", "fifo"
	SweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"0"`    // Background sweep period; 0 disables the sweeper
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	// Ignore errors - the .env file might not exist and that's ok
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Options translates the configuration into constructor options, which
// later options may still override:
//
//	cfg, err := cache.LoadConfig()
//	...
//	opts, err := cfg.Options()
//	...
//	c, err := cache.New[string](append(opts, cache.WithLogger(log))...)
func (c Config) Options() ([]Option, error) {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithMaxSize(c.MaxSize),
		WithDefaultTTL(c.DefaultTTL),
		WithPolicy(policy),
		WithSweepInterval(c.SweepInterval),
	}, nil
}
