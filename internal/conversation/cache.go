// Package conversation caches the recent conversation window per lead in
// Redis so the scoring pipeline does not hit Postgres on every inbound
// message. The database remains the source of truth; the cache only holds
// the sliding window the scorer needs.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"autoassist_backend/internal/scoring"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is a Redis-backed sliding window of conversation turns.
type Cache struct {
	client *redis.Client
	window int
	ttl    time.Duration
}

// Config provides the cache settings.
type Config interface {
	GetRedisURL() string
	GetConversationWindow() int
	GetConversationTTL() time.Duration
}

// NewCache connects to Redis and returns the cache.
func NewCache(cfg Config) (*Cache, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewCacheWithClient(redis.NewClient(opt), cfg.GetConversationWindow(), cfg.GetConversationTTL()), nil
}

// NewCacheWithClient wraps an existing Redis client, used by tests.
func NewCacheWithClient(client *redis.Client, window int, ttl time.Duration) *Cache {
	if window <= 0 {
		window = 10
	}
	return &Cache{client: client, window: window, ttl: ttl}
}

func key(leadID uuid.UUID) string {
	return "conversation:" + leadID.String()
}

// Append pushes a turn onto the lead's window and trims it to the
// configured size.
func (c *Cache) Append(ctx context.Context, leadID uuid.UUID, turn scoring.Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, key(leadID), payload)
	pipe.LTrim(ctx, key(leadID), int64(-c.window), -1)
	if c.ttl > 0 {
		pipe.Expire(ctx, key(leadID), c.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// History returns the cached window, oldest first. An empty slice with a
// nil error means a cold cache; callers fall back to the database.
func (c *Cache) History(ctx context.Context, leadID uuid.UUID) ([]scoring.Turn, error) {
	entries, err := c.client.LRange(ctx, key(leadID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]scoring.Turn, 0, len(entries))
	for _, entry := range entries {
		var turn scoring.Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			// A corrupt entry invalidates the whole window.
			_ = c.client.Del(ctx, key(leadID)).Err()
			return nil, fmt.Errorf("corrupt cache entry: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Invalidate drops the cached window for a lead.
func (c *Cache) Invalidate(ctx context.Context, leadID uuid.UUID) error {
	return c.client.Del(ctx, key(leadID)).Err()
}

// Ping verifies the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
