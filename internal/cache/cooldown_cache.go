package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// CooldownCache stores the last full-listing sync time per (kind, scope).
// The batch runner never reads redis itself; the transport layer fetches
// the timestamp here and passes it in explicitly, which keeps the cooldown
// testable and free of ambient state.
type CooldownCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCooldownCache(client *redisv9.Client, ttl time.Duration) *CooldownCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CooldownCache{client: client, ttl: ttl}
}

// LastSync returns the stored timestamp, or the zero time when none exists.
func (c *CooldownCache) LastSync(ctx context.Context, kind string, scopeID uint) (time.Time, error) {
	raw, err := c.client.Get(ctx, c.key(kind, scopeID)).Result()
	if err == redisv9.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("redis get last sync failed: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync timestamp failed: %w", err)
	}
	return t, nil
}

// MarkSynced records now as the last sync time.
func (c *CooldownCache) MarkSynced(ctx context.Context, kind string, scopeID uint) error {
	value := time.Now().Format(time.RFC3339Nano)
	if err := c.client.Set(ctx, c.key(kind, scopeID), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set last sync failed: %w", err)
	}
	return nil
}

func (c *CooldownCache) key(kind string, scopeID uint) string {
	return fmt.Sprintf("sync:last:%s:%d", kind, scopeID)
}
