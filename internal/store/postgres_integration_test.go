//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require a running PostgreSQL database.
// Set TEST_DATABASE_URL environment variable to run them.

func getTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	p, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)

	_, _ = p.pool.Exec(ctx, "DELETE FROM kv_entries WHERE key LIKE 'test:%'")
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestIntegration_PostgresSetGet(t *testing.T) {
	p := getTestPostgres(t)
	ctx := context.Background()

	require.NoError(t, p.Set(ctx, "test:k", "v", time.Minute))
	v, err := p.Get(ctx, "test:k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, p.Delete(ctx, "test:k"))
	_, err = p.Get(ctx, "test:k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_PostgresIncr(t *testing.T) {
	p := getTestPostgres(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := p.Incr(ctx, "test:rl", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
}

func TestIntegration_PostgresExpiry(t *testing.T) {
	p := getTestPostgres(t)
	ctx := context.Background()

	n, err := p.Incr(ctx, "test:short", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	time.Sleep(1100 * time.Millisecond)

	_, err = p.Get(ctx, "test:short")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = p.Incr(ctx, "test:short", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "an expired counter restarts")
}
