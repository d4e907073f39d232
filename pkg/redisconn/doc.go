// Package redisconn dials the Redis server that backs a persist.RedisStore.
//
// The package wraps the go-redis client with a retrying Connect and a
// health-check helper suitable for liveness probes. Configuration is a plain
// struct whose fields carry env tags for github.com/caarlos0/env:
//
//	var cfg redisconn.Config
//	if err := env.Parse(&cfg); err != nil {
//		log.Fatal(err)
//	}
//	client, err := redisconn.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := persist.NewRedisStore(client, persist.DefaultRedisPrefix)
//
// Connect retries until the server answers PING or the attempts are spent, so
// a cache process started alongside Redis does not race its boot. Sentinel
// errors wrap the underlying go-redis errors via errors.Join and can be
// matched with errors.Is.
package redisconn
