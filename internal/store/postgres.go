package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at TIMESTAMPTZ
)`

// pgExpiry turns a ttl in seconds ($2) into an expiry timestamp on the
// database clock, or NULL for no expiry.
const pgExpiry = `CASE WHEN $2::double precision > 0 THEN now() + $2::double precision * interval '1 second' END`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the kv_entries table.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_entries: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Get implements Store.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, nil
}

// Set implements Store.
func (p *Postgres) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_entries (key, value, expires_at)
		 VALUES ($1, $3, `+pgExpiry+`)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, ttl.Seconds(), value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Incr implements Store. An expired row restarts at 1 with a fresh expiry.
func (p *Postgres) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO kv_entries (key, value, expires_at)
		 VALUES ($1, '1', `+pgExpiry+`)
		 ON CONFLICT (key) DO UPDATE SET
		   value = CASE
		     WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= now() THEN '1'
		     ELSE (kv_entries.value::bigint + 1)::text
		   END,
		   expires_at = CASE
		     WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= now() THEN EXCLUDED.expires_at
		     ELSE kv_entries.expires_at
		   END
		 RETURNING value::bigint`,
		key, ttl.Seconds(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %q: %w", key, err)
	}
	return n, nil
}

// Delete implements Store.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (p *Postgres) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close implements Store.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
