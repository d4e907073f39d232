package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_records (
	key        BLOB PRIMARY KEY,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`

// SQLiteStore persists records in a single-file database using the pure Go
// driver, giving one process a cross-restart cache without external
// services.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creating file and schema as
// needed. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single pooled connection with
	// a busy timeout avoids SQLITE_BUSY under concurrent cache writes.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return &SQLiteStore{db: db}, nil
}

// Write implements Store with an upsert on the key.
func (s *SQLiteStore) Write(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_records (key, value, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
		rec.Key.Bytes(), rec.Value, rec.CreatedAt.Unix())
	return err
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, key fingerprint.Key) (Record, bool, error) {
	var value []byte
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, created_at FROM cache_records WHERE key = ?`,
		key.Bytes()).Scan(&value, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return Record{Key: key, Value: value, CreatedAt: time.Unix(createdAt, 0)}, true, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key fingerprint.Key) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_records WHERE key = ?`, key.Bytes())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// All implements Store.
func (s *SQLiteStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, created_at FROM cache_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var keyBytes, value []byte
		var createdAt int64
		if err := rows.Scan(&keyBytes, &value, &createdAt); err != nil {
			return nil, err
		}
		if len(keyBytes) != fingerprint.Size {
			return nil, fmt.Errorf("%w: key column holds %d bytes", ErrMalformedRecord, len(keyBytes))
		}
		rec := Record{Value: value, CreatedAt: time.Unix(createdAt, 0)}
		copy(rec.Key[:], keyBytes)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Len implements Store.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cache_records`).Scan(&n)
	return n, err
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
