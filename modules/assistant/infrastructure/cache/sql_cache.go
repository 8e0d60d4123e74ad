package cache

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// SQLCache remembers the last generated SQL per conversation thread, so
// "show SQL", refinement, and export re-use the exact statement that
// produced the answer. Entries expire; a stale statement is regenerated.
type SQLCache interface {
	Get(ctx context.Context, threadID string) (string, bool, error)
	Set(ctx context.Context, threadID, sql string) error
}

type RedisSQLCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSQLCache(client *redis.Client, ttl time.Duration) *RedisSQLCache {
	return &RedisSQLCache{client: client, ttl: ttl}
}

func key(threadID string) string {
	return "assistant:sql:" + threadID
}

func (c *RedisSQLCache) Get(ctx context.Context, threadID string) (string, bool, error) {
	val, err := c.client.Get(ctx, key(threadID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "reading cached sql")
	}
	return val, true, nil
}

func (c *RedisSQLCache) Set(ctx context.Context, threadID, sql string) error {
	if err := c.client.Set(ctx, key(threadID), sql, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "caching sql")
	}
	return nil
}
