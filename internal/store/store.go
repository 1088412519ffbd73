// Package store provides the key-value store with expiry used for CPA unlock
// state and request quotas.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNotFound is returned by Get for missing or expired keys.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store with per-key expiry. A ttl <= 0 means the
// key never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr atomically increments the integer at key and returns the new value.
	// The ttl applies only when the call creates the key; an existing key
	// keeps its original expiry.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects and configures a Store.
type Config struct {
	Driver string
	// DSN is the Postgres connection URL or the SQLite database path.
	DSN string
}

// Open returns the store selected by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store requires a database url")
		}
		return NewPostgres(ctx, cfg.DSN)
	case DriverSQLite:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite store requires a database path")
		}
		return NewSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Purger is implemented by stores that can drop expired entries in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunJanitor purges expired entries from s every interval until ctx is done.
// It returns immediately when s does not implement Purger.
func RunJanitor(ctx context.Context, s Store, interval time.Duration) {
	p, ok := s.(Purger)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Printf("[store] purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[store] purged %d expired entries", n)
			}
		}
	}
}
