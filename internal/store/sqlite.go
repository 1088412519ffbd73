package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER
)`

// SQLite is a Store in a single SQLite file. Expiry is kept as Unix
// milliseconds.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the database at path. ":memory:" is accepted
// for a private in-process database.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv_entries: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) nowMillis() int64 {
	return s.now().UnixMilli()
}

func (s *SQLite) expiry(ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, s.nowMillis(),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting %q: %w", key, err)
	}
	return value, nil
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, s.expiry(ttl),
	)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Incr implements Store. An expired row restarts at 1 with a fresh expiry.
func (s *SQLite) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.nowMillis()
	var n int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO kv_entries (key, value, expires_at) VALUES (?, '1', ?)
		 ON CONFLICT(key) DO UPDATE SET
		   value = CASE
		     WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= ? THEN '1'
		     ELSE CAST(CAST(kv_entries.value AS INTEGER) + 1 AS TEXT)
		   END,
		   expires_at = CASE
		     WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= ? THEN excluded.expires_at
		     ELSE kv_entries.expires_at
		   END
		 RETURNING CAST(value AS INTEGER)`,
		key, s.expiry(ttl), now, now,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("incrementing %q: %w", key, err)
	}
	return n, nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (s *SQLite) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= ?`, s.nowMillis())
	if err != nil {
		return 0, fmt.Errorf("purging expired entries: %w", err)
	}
	return res.RowsAffected()
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
