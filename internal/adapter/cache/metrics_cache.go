// Package cache provides an optional Redis read-through cache for
// metrics snapshots. Cache failures always degrade to a miss so a broken
// cache can never mask a store failure or fabricate empty metrics.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adl-tracker/internal/core/domain"
)

// MetricsCache stores computed snapshots under short TTLs. Dashboard
// reads tolerate slightly stale numbers; correctness still comes from
// the raw event ledger.
type MetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMetricsCache wraps an existing redis client. The client's lifecycle
// is managed by the caller.
func NewMetricsCache(client *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{client: client, ttl: ttl}
}

func key(code string, w domain.Window) string {
	return fmt.Sprintf("metrics:%s:%d", code, w.Since.UTC().Unix())
}

// Get returns the cached snapshot for (code, window), reporting a miss on
// any redis or decoding failure.
func (c *MetricsCache) Get(ctx context.Context, code string, w domain.Window) (*domain.MetricsSnapshot, bool) {
	payload, err := c.client.Get(ctx, key(code, w)).Bytes()
	if err != nil {
		return nil, false
	}
	var snap domain.MetricsSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Set caches a freshly computed snapshot. Failures are ignored.
func (c *MetricsCache) Set(ctx context.Context, w domain.Window, snap domain.MetricsSnapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(snap.TrackingCode, w), payload, c.ttl)
}
