package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jonathan/cv-ats/internal/store"
)

const quotaKeyPrefix = "ratelimit:"

// Quota is a fixed-window request counter kept in a Store, so every server
// sharing the store sees the same counts.
type Quota struct {
	store  store.Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewQuota allows limit requests per client in each window. A limit of 0
// disables the quota.
func NewQuota(st store.Store, limit int, window time.Duration) *Quota {
	return &Quota{store: st, limit: limit, window: window, now: time.Now}
}

// Enabled reports whether Allow can ever refuse.
func (q *Quota) Enabled() bool {
	return q != nil && q.limit > 0 && q.window > 0
}

// Allow counts one request for clientID against the current window.
func (q *Quota) Allow(ctx context.Context, clientID string) (bool, Info, error) {
	if !q.Enabled() {
		return true, Info{Allowed: true}, nil
	}

	now := q.now()
	start := now.Truncate(q.window)
	reset := start.Add(q.window)
	key := quotaKeyPrefix + clientID + ":" + strconv.FormatInt(start.Unix(), 10)

	count, err := q.store.Incr(ctx, key, reset.Sub(now))
	if err != nil {
		return false, Info{}, fmt.Errorf("quota check failed: %w", err)
	}

	allowed := count <= int64(q.limit)
	info := Info{
		Allowed:   allowed,
		Limit:     q.limit,
		Remaining: max(0, q.limit-int(count)),
		ResetTime: reset,
	}
	if !allowed {
		info.RetryAfter = reset.Sub(now)
	}
	return allowed, info, nil
}
