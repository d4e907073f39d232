package persist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

const (
	// DefaultRedisPrefix namespaces cache records within a shared database.
	DefaultRedisPrefix = "respcache:"

	redisScanBatchSize = 1000

	fieldValue     = "value"
	fieldCreatedAt = "created_at"
)

// RedisStore persists records in Redis, one hash per cache key, so several
// processes can share a response cache. The caller owns the client; Close
// leaves it open.
type RedisStore struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing Redis client. An empty prefix falls back
// to DefaultRedisPrefix.
func NewRedisStore(db redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{db: db, prefix: prefix}
}

func (s *RedisStore) redisKey(key fingerprint.Key) string {
	return s.prefix + key.String()
}

// Write implements Store.
func (s *RedisStore) Write(ctx context.Context, rec Record) error {
	return s.db.HSet(ctx, s.redisKey(rec.Key), map[string]any{
		fieldValue:     rec.Value,
		fieldCreatedAt: rec.CreatedAt.Unix(),
	}).Err()
}

// Read implements Store. A missing hash is reported as absent, not as an
// error.
func (s *RedisStore) Read(ctx context.Context, key fingerprint.Key) (Record, bool, error) {
	fields, err := s.db.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return Record{}, false, err
	}
	if len(fields) == 0 {
		return Record{}, false, nil
	}
	rec, err := recordFromHash(key, fields)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key fingerprint.Key) (bool, error) {
	n, err := s.db.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// All implements Store. It walks the prefix with SCAN to avoid blocking
// the server on large databases.
func (s *RedisStore) All(ctx context.Context) ([]Record, error) {
	var recs []Record
	var cursor uint64
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", redisScanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		for _, name := range batch {
			key, err := fingerprint.ParseKey(strings.TrimPrefix(name, s.prefix))
			if err != nil {
				return nil, fmt.Errorf("%w: unexpected key %q under prefix %q", ErrMalformedRecord, name, s.prefix)
			}
			fields, err := s.db.HGetAll(ctx, name).Result()
			if err != nil {
				return nil, err
			}
			if len(fields) == 0 {
				// Deleted between the scan and the read.
				continue
			}
			rec, err := recordFromHash(key, fields)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return recs, nil
}

// Len implements Store by counting keys under the prefix.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var n int
	var cursor uint64
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", redisScanBatchSize).Result()
		if err != nil {
			return 0, err
		}
		n += len(batch)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return n, nil
}

// Close implements Store. The Redis client belongs to the caller and is
// left open.
func (s *RedisStore) Close() error {
	return nil
}

func recordFromHash(key fingerprint.Key, fields map[string]string) (Record, error) {
	raw, ok := fields[fieldCreatedAt]
	if !ok {
		return Record{}, fmt.Errorf("%w: missing %s field", ErrMalformedRecord, fieldCreatedAt)
	}
	createdAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s is not a unix timestamp: %q", ErrMalformedRecord, fieldCreatedAt, raw)
	}
	return Record{
		Key:       key,
		Value:     []byte(fields[fieldValue]),
		CreatedAt: time.Unix(createdAt, 0),
	}, nil
}
