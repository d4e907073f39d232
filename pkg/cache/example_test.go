package cache_test

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/respcache/pkg/cache"
)

// Example_basicUsage demonstrates caching an expensive computation by its
// request identity.
func Example_basicUsage() {
	c, err := cache.New[string](
		cache.WithMaxSize(100),
		cache.WithDefaultTTL(time.Hour),
	)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	opts := map[string]any{"model": "gpt-4", "temperature": 0.2}

	// First request misses and triggers the real computation.
	if _, ok, _ := c.Get("summarize the report", opts); !ok {
		result := "the report is fine" // expensive call goes here
		_ = c.Set("summarize the report", opts, result, 0)
	}

	// The repeat request is served from the cache.
	v, ok, _ := c.Get("summarize the report", opts)
	fmt.Println(ok, v)

	stats := c.Stats()
	fmt.Printf("hits=%d misses=%d hit_rate=%.2f\n", stats.Hits, stats.Misses, stats.HitRate)

	// Output:
	// true the report is fine
	// hits=1 misses=1 hit_rate=0.50
}

// Example_evictionPolicy demonstrates how a FIFO cache sheds its oldest
// entry when the capacity is reached.
func Example_evictionPolicy() {
	c, err := cache.New[int](
		cache.WithMaxSize(2),
		cache.WithPolicy(cache.FIFO{}),
	)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	_ = c.Set("first", nil, 1, 0)
	_ = c.Set("second", nil, 2, 0)
	_ = c.Set("third", nil, 3, 0) // evicts "first"

	_, ok, _ := c.Get("first", nil)
	fmt.Println("first present:", ok)
	fmt.Println("evictions:", c.Stats().Evictions)

	// Output:
	// first present: false
	// evictions: 1
}

// Example_environmentConfig demonstrates building a cache from CACHE_*
// environment variables.
func Example_environmentConfig() {
	cfg, err := cache.LoadConfig()
	if err != nil {
		panic(err)
	}

	opts, err := cfg.Options()
	if err != nil {
		panic(err)
	}

	c, err := cache.New[string](opts...)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	fmt.Println("cache ready")

	// Output:
	// cache ready
}
