package memory

import (
	"context"
	"encoding/json"
	"time"

	"portfolio-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// ContentCache is the in-process ContentCache. Values are stored encoded so
// callers never share the cached slices.
type ContentCache struct {
	cache *cache.Cache
}

func NewContentCache(defaultTTL time.Duration) *ContentCache {
	return &ContentCache{cache: cache.New(defaultTTL, 2*defaultTTL)}
}

func (c *ContentCache) Get(_ context.Context, key string, dest any) error {
	x, found := c.cache.Get(key)
	if !found {
		return contract.ErrCacheMiss
	}
	return json.Unmarshal(x.([]byte), dest)
}

func (c *ContentCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.cache.Set(key, data, ttl)
	return nil
}

func (c *ContentCache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}
