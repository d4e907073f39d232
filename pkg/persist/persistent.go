package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/respcache/pkg/cache"
	"github.com/dmitrymomot/respcache/pkg/fingerprint"
	"github.com/dmitrymomot/respcache/pkg/logging"
)

type persistentConfig struct {
	recordTTL time.Duration
	logger    *slog.Logger
}

// Option configures a Persistent wrapper.
type Option func(*persistentConfig)

// WithRecordTTL overrides the liveness window applied to stored records.
// By default records live as long as the memory cache's default TTL.
func WithRecordTTL(d time.Duration) Option {
	return func(c *persistentConfig) {
		c.recordTTL = d
	}
}

// WithLogger sets the logger for degraded store operations. Without it the
// degradation path is silent except for the IOStats counters.
func WithLogger(log *slog.Logger) Option {
	return func(c *persistentConfig) {
		c.logger = log
	}
}

// Persistent composes an in-memory cache with a durable Store. Reads fall
// through to the store on a memory miss; writes go to both layers. Store
// failures never fail the caller: they are logged, counted in IOStats, and
// the operation degrades to memory-only behavior.
type Persistent[V any] struct {
	mem     *cache.Cache[V]
	store   Store
	marshal Marshaler[V]
	cfg     persistentConfig

	readFailures   atomic.Uint64
	writeFailures  atomic.Uint64
	deleteFailures atomic.Uint64
}

// IOStats counts store operations that failed and were degraded to
// memory-only behavior.
type IOStats struct {
	ReadFailures   uint64 `json:"read_failures"`
	WriteFailures  uint64 `json:"write_failures"`
	DeleteFailures uint64 `json:"delete_failures"`
}

// NewPersistent wraps the memory cache with the durable store. Values are
// stored as JSON unless SetMarshaler replaces the codec.
func NewPersistent[V any](mem *cache.Cache[V], store Store, opts ...Option) (*Persistent[V], error) {
	if mem == nil {
		return nil, fmt.Errorf("%w: nil cache", ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}

	var cfg persistentConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.recordTTL <= 0 {
		cfg.recordTTL = mem.Stats().DefaultTTL
	}

	return &Persistent[V]{
		mem:     mem,
		store:   store,
		marshal: JSONMarshaler[V]{},
		cfg:     cfg,
	}, nil
}

// SetMarshaler replaces the value codec. Call it before the wrapper sees
// traffic; values written under one codec are unreadable under another.
func (p *Persistent[V]) SetMarshaler(m Marshaler[V]) {
	if m != nil {
		p.marshal = m
	}
}

// Cache returns the memory layer, e.g. for stats reporting or HTTP wiring.
func (p *Persistent[V]) Cache() *cache.Cache[V] {
	return p.mem
}

// Get checks memory first and falls back to the durable store. A live
// stored record is promoted back into memory with its original creation
// time, so the remaining TTL window is preserved. Expired records are
// deleted from the store on sight.
func (p *Persistent[V]) Get(ctx context.Context, primary string, options map[string]any) (V, bool, error) {
	v, ok, err := p.mem.Get(primary, options)
	if err != nil || ok {
		return v, ok, err
	}

	// The memory lookup already derived this key successfully.
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return p.readThrough(ctx, key)
}

func (p *Persistent[V]) readThrough(ctx context.Context, key fingerprint.Key) (V, bool, error) {
	var zero V

	rec, ok, err := p.store.Read(ctx, key)
	if err != nil {
		p.readFailures.Add(1)
		p.logError(ctx, "durable read failed", err, key)
		return zero, false, nil
	}
	if !ok {
		return zero, false, nil
	}
	if p.expired(rec) {
		p.deleteRecord(ctx, key)
		return zero, false, nil
	}

	v, err := p.marshal.Unmarshal(rec.Value)
	if err != nil {
		p.readFailures.Add(1)
		p.logError(ctx, "stored value decode failed", err, key)
		return zero, false, nil
	}
	if err := p.mem.Restore(key, v, rec.CreatedAt, p.cfg.recordTTL); err != nil {
		// The record crossed the expiry boundary between the check above
		// and the restore.
		p.deleteRecord(ctx, key)
		return zero, false, nil
	}
	return v, true, nil
}

// Set writes to memory first and then to the durable store. A store
// failure is logged and counted, not returned: the entry remains served
// from memory.
func (p *Persistent[V]) Set(ctx context.Context, primary string, options map[string]any, value V, ttl time.Duration) error {
	if err := p.mem.Set(primary, options, value, ttl); err != nil {
		return err
	}
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		return err
	}
	p.writeThrough(ctx, key, value, time.Now())
	return nil
}

func (p *Persistent[V]) writeThrough(ctx context.Context, key fingerprint.Key, value V, createdAt time.Time) bool {
	data, err := p.marshal.Marshal(value)
	if err != nil {
		p.writeFailures.Add(1)
		p.logError(ctx, "value encode failed", err, key)
		return false
	}
	if err := p.store.Write(ctx, Record{Key: key, Value: data, CreatedAt: createdAt}); err != nil {
		p.writeFailures.Add(1)
		p.logError(ctx, "durable write failed", err, key)
		return false
	}
	return true
}

// Invalidate removes the request from both layers and reports whether
// either layer had it.
func (p *Persistent[V]) Invalidate(ctx context.Context, primary string, options map[string]any) (bool, error) {
	memHad, err := p.mem.Invalidate(primary, options)
	if err != nil {
		return false, err
	}
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		return memHad, err
	}

	storeHad := false
	if had, err := p.store.Delete(ctx, key); err != nil {
		p.deleteFailures.Add(1)
		p.logError(ctx, "durable delete failed", err, key)
	} else {
		storeHad = had
	}
	return memHad || storeHad, nil
}

// Load restores every live record from the store into memory and deletes
// expired ones. Returns how many entries were restored. Call it once at
// startup before serving traffic.
func (p *Persistent[V]) Load(ctx context.Context) (int, error) {
	recs, err := p.store.All(ctx)
	if err != nil {
		p.readFailures.Add(1)
		return 0, err
	}

	restored := 0
	for _, rec := range recs {
		if p.expired(rec) {
			p.deleteRecord(ctx, rec.Key)
			continue
		}
		v, err := p.marshal.Unmarshal(rec.Value)
		if err != nil {
			p.readFailures.Add(1)
			p.logError(ctx, "stored value decode failed", err, rec.Key)
			continue
		}
		if err := p.mem.Restore(rec.Key, v, rec.CreatedAt, p.cfg.recordTTL); err != nil {
			continue
		}
		restored++
	}
	return restored, nil
}

// Flush writes the current live memory contents to the store, preserving
// each entry's creation time. Returns how many entries were written;
// entries that fail to encode or write are skipped and counted in IOStats.
func (p *Persistent[V]) Flush(ctx context.Context) (int, error) {
	flushed := 0
	for _, snap := range p.mem.Entries() {
		if err := ctx.Err(); err != nil {
			return flushed, err
		}
		if p.writeThrough(ctx, snap.Key, snap.Value, snap.CreatedAt) {
			flushed++
		}
	}
	return flushed, nil
}

// SweepExpired deletes every expired record from the store without
// touching memory. Returns how many records were removed.
func (p *Persistent[V]) SweepExpired(ctx context.Context) (int, error) {
	recs, err := p.store.All(ctx)
	if err != nil {
		p.readFailures.Add(1)
		return 0, err
	}

	removed := 0
	for _, rec := range recs {
		if !p.expired(rec) {
			continue
		}
		had, err := p.store.Delete(ctx, rec.Key)
		if err != nil {
			p.deleteFailures.Add(1)
			p.logError(ctx, "durable delete failed", err, rec.Key)
			continue
		}
		if had {
			removed++
		}
	}
	return removed, nil
}

// Clear empties both layers. Returns how many memory entries were removed.
func (p *Persistent[V]) Clear(ctx context.Context) (int, error) {
	n := p.mem.Clear()

	recs, err := p.store.All(ctx)
	if err != nil {
		p.readFailures.Add(1)
		return n, err
	}
	for _, rec := range recs {
		if _, err := p.store.Delete(ctx, rec.Key); err != nil {
			p.deleteFailures.Add(1)
			p.logError(ctx, "durable delete failed", err, rec.Key)
		}
	}
	return n, nil
}

// IOStats returns the degradation counters.
func (p *Persistent[V]) IOStats() IOStats {
	return IOStats{
		ReadFailures:   p.readFailures.Load(),
		WriteFailures:  p.writeFailures.Load(),
		DeleteFailures: p.deleteFailures.Load(),
	}
}

// Close stops the memory cache's background sweeper and closes the store.
func (p *Persistent[V]) Close() error {
	p.mem.Close()
	return p.store.Close()
}

func (p *Persistent[V]) expired(rec Record) bool {
	return time.Since(rec.CreatedAt) >= p.cfg.recordTTL
}

// Best effort removal of a record already known to be expired or stale.
func (p *Persistent[V]) deleteRecord(ctx context.Context, key fingerprint.Key) {
	if _, err := p.store.Delete(ctx, key); err != nil {
		p.deleteFailures.Add(1)
		p.logError(ctx, "durable delete failed", err, key)
	}
}

func (p *Persistent[V]) logError(ctx context.Context, msg string, err error, key fingerprint.Key) {
	if p.cfg.logger == nil {
		return
	}
	p.cfg.logger.ErrorContext(ctx, msg,
		logging.Error(err),
		logging.Key(key))
}
