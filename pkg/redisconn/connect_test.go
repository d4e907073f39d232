package redisconn_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/respcache/pkg/redisconn"
)

func testConfig(addr string) redisconn.Config {
	return redisconn.Config{
		ConnectionURL:  "redis://" + addr,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to a running server", func(t *testing.T) {
		t.Parallel()

		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)

		client, err := redisconn.Connect(context.Background(), testConfig(mr.Addr()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("rejects a malformed connection URL", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("ignored")
		cfg.ConnectionURL = "localhost:6379"

		_, err := redisconn.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redisconn.ErrInvalidConnectionURL)
	})

	t.Run("gives up when the server never answers", func(t *testing.T) {
		t.Parallel()

		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig(addr)
		cfg.ConnectTimeout = 500 * time.Millisecond

		_, err = redisconn.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redisconn.ErrNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redisconn.Connect(context.Background(), testConfig(mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	check := redisconn.Healthcheck(client)
	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redisconn.ErrHealthcheckFailed)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@cache.internal:6380/2")
	t.Setenv("REDIS_RETRY_ATTEMPTS", "5")
	t.Setenv("REDIS_RETRY_INTERVAL", "1s")
	t.Setenv("REDIS_CONNECT_TIMEOUT", "10s")

	var cfg redisconn.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "redis://:secret@cache.internal:6380/2", cfg.ConnectionURL)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryInterval)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}
