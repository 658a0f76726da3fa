package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache stores JSON-encoded values with a TTL. The classify dry-run endpoint
// uses it to serve repeated identical queries without re-scoring.
type Cache struct {
	client *Client
	prefix string
	ttl    time.Duration
}

// NewCache builds a cache under the given key prefix.
func NewCache(client *Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get unmarshals the cached value for key into out.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Underlying().Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cached value is not valid json")
	}
	return nil
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache value")
	}
	if err := c.client.Underlying().Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Underlying().Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}
