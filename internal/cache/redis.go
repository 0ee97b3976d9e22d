package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/letservice/config"
	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/redis/go-redis/v9"
)

const airlinesKey = "cache:airlines"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// RedisCache holds the airline catalogue. Flights are never cached since
// their runtime status depends on the current instant.
type RedisCache struct {
	client      redis.Cmdable
	airlinesTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, airlinesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, airlinesTTL: airlinesTTL}
}

// GetAirlines returns nil, nil on a cache miss.
func (c *RedisCache) GetAirlines(ctx context.Context) ([]domain.Airline, error) {
	data, err := c.client.Get(ctx, airlinesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	airlines := make([]domain.Airline, 0)
	if err := json.Unmarshal(data, &airlines); err != nil {
		return nil, err
	}
	return airlines, nil
}

func (c *RedisCache) SetAirlines(ctx context.Context, airlines []domain.Airline) error {
	if c.airlinesTTL <= 0 {
		return nil
	}
	payload, err := json.Marshal(airlines)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airlinesKey, payload, c.airlinesTTL).Err()
}

func (c *RedisCache) InvalidateAirlines(ctx context.Context) error {
	return c.client.Del(ctx, airlinesKey).Err()
}
