package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"portfolio-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const contentKeyPrefix = "portfolio:content:"

// RedisContentCache shares upstream records between replicas.
type RedisContentCache struct {
	rdb *redis.Client
}

func NewRedisContentCache(rdb *redis.Client) *RedisContentCache {
	return &RedisContentCache{rdb: rdb}
}

func (c *RedisContentCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.rdb.Get(ctx, contentKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return contract.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *RedisContentCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, contentKeyPrefix+key, data, ttl).Err()
}

func (c *RedisContentCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, contentKeyPrefix+key).Err()
}
