package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SettingsCache keeps agency settings documents in Redis so the hot
// read path (every quotation render pulls tenant preferences) skips
// Postgres. Writes go through Invalidate, never through the cache.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, ttl: ttl}
}

func settingsKey(agencyID uuid.UUID) string {
	return "agency:settings:" + agencyID.String()
}

// Get returns the cached document, or ErrNotFound on a miss.
func (c *SettingsCache) Get(ctx context.Context, agencyID uuid.UUID) (json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, ErrNotFound
	}
	val, err := c.client.Get(ctx, settingsKey(agencyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(val), nil
}

func (c *SettingsCache) Set(ctx context.Context, agencyID uuid.UUID, settings json.RawMessage) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, settingsKey(agencyID), []byte(settings), c.ttl).Err()
}

func (c *SettingsCache) Invalidate(ctx context.Context, agencyID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, settingsKey(agencyID)).Err()
}
