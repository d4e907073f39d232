package persist_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/respcache/pkg/cache"
	"github.com/dmitrymomot/respcache/pkg/fingerprint"
	"github.com/dmitrymomot/respcache/pkg/persist"
)

func newSQLiteStore(t *testing.T) *persist.SQLiteStore {
	t.Helper()
	store, err := persist.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStore(t *testing.T) {
	t.Parallel()

	t.Run("rejects an empty path", func(t *testing.T) {
		t.Parallel()

		_, err := persist.NewSQLiteStore(context.Background(), "")
		require.ErrorIs(t, err, persist.ErrInvalidConfig)
	})

	t.Run("supports in-memory databases", func(t *testing.T) {
		t.Parallel()

		store, err := persist.NewSQLiteStore(context.Background(), ":memory:")
		require.NoError(t, err)
		defer store.Close()

		n, err := store.Len(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	ctx := context.Background()
	key := fingerprint.MustDerive("question", nil)
	createdAt := time.Now()

	require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte("payload"), CreatedAt: createdAt}))

	rec, ok, err := store.Read(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key, rec.Key)
	assert.Equal(t, []byte("payload"), rec.Value)
	assert.WithinDuration(t, createdAt, rec.CreatedAt, time.Second, "timestamps round to seconds")

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	ctx := context.Background()
	key := fingerprint.MustDerive("question", nil)

	require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte("old"), CreatedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte("new"), CreatedAt: time.Now()}))

	rec, ok, err := store.Read(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), rec.Value)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, 2*time.Second)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "overwriting does not duplicate the key")
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)

	_, ok, err := store.Read(context.Background(), fingerprint.MustDerive("absent", nil))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreDelete(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	ctx := context.Background()
	key := fingerprint.MustDerive("question", nil)

	require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte("v"), CreatedAt: time.Now()}))

	had, err := store.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, had)

	had, err = store.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, had)
}

func TestSQLiteStoreAll(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	ctx := context.Background()

	keys := make(map[fingerprint.Key]bool)
	for _, primary := range []string{"a", "b", "c"} {
		key := fingerprint.MustDerive(primary, nil)
		keys[key] = true
		require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte(primary), CreatedAt: time.Now()}))
	}

	recs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, rec := range recs {
		assert.True(t, keys[rec.Key], "unexpected key %s", rec.Key)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	key := fingerprint.MustDerive("question", nil)

	store, err := persist.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, persist.Record{Key: key, Value: []byte("payload"), CreatedAt: time.Now()}))
	require.NoError(t, store.Close())

	reopened, err := persist.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, ok, err := reopened.Read(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), rec.Value)
}

func TestSQLiteBackedCacheSurvivesRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := persist.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	mem, err := cache.New[string]()
	require.NoError(t, err)
	p, err := persist.NewPersistent(mem, store)
	require.NoError(t, err)

	require.NoError(t, p.Set(ctx, "summarize the report", map[string]any{"model": "small", "temperature": 0.1}, "the report is fine", 0))
	require.NoError(t, p.Close())

	store2, err := persist.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	mem2, err := cache.New[string]()
	require.NoError(t, err)
	p2, err := persist.NewPersistent(mem2, store2)
	require.NoError(t, err)
	defer p2.Close()

	restored, err := p2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	v, ok, err := p2.Get(ctx, "summarize the report", map[string]any{"temperature": 0.1, "model": "small"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "the report is fine", v)
}
