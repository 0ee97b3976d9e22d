package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisCounter shares counters between processes. The window starts with
// the first hit on a key.
type RedisCounter struct {
	client redis.Cmdable
	window time.Duration
}

func NewRedisCounter(client redis.Cmdable, window time.Duration) *RedisCounter {
	return &RedisCounter{client: client, window: window}
}

func (c *RedisCounter) Hit(ctx context.Context, key string) (int, error) {
	k := keyPrefix + key
	n, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := c.client.Expire(ctx, k, c.window).Err(); err != nil {
			return int(n), fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return int(n), nil
}

func (c *RedisCounter) Reset(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+key).Err()
}

var _ Counter = (*RedisCounter)(nil)
