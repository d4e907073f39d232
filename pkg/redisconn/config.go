package redisconn

import "time"

// Config describes how to reach the Redis server that stores cache records.
// The zero value is not usable; populate it from the environment with
// env.Parse or fill the fields directly in tests.
type Config struct {
	// ConnectionURL is a redis:// URL, e.g. "redis://:password@localhost:6379/0".
	ConnectionURL string `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	// RetryAttempts is how many times Connect pings the server before giving up.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the pause between failed attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	// ConnectTimeout bounds the whole retry loop.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
