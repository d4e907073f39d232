// Package persist adds a durable layer below the in-memory response cache
// so cached results survive process restarts.
//
// A stored record is the triple (key, value bytes, creation time). Records
// carry no TTL of their own: liveness is judged against the composing
// cache's TTL window at read time, so the durable layer never alters
// expiry or eviction semantics.
//
// # Stores
//
// Two backends implement the Store interface:
//
//   - SQLiteStore keeps records in a single-file database using the pure
//     Go driver, the natural choice for one process reusing its own
//     results across restarts.
//   - RedisStore keeps records in Redis hashes under a shared prefix, for
//     several processes sharing one response cache.
//
// # Degradation
//
// Persistent, the composing wrapper, treats every store failure as a soft
// miss: the error is logged and counted in IOStats, and the operation
// falls back to memory-only behavior. A broken disk or an unreachable
// Redis never fails a cache call.
//
// # Usage
//
//	mem, err := cache.New[string](cache.WithMaxSize(10_000))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store, err := persist.NewSQLiteStore(ctx, "respcache.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pc, err := persist.NewPersistent(mem, store)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pc.Close()
//
//	restored, err := pc.Load(ctx) // Rehydrate before serving traffic.
//
//	value, ok, err := pc.Get(ctx, "summarize this document", opts)
//
// Memory-layer statistics describe the memory layer only: a value served
// from the durable store counts as a memory miss there, and as a hit on
// the next lookup once the record has been promoted back into memory.
package persist
