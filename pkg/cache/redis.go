package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/treekit/treekit/pkg/errors"
)

// RedisCache stores entries in Redis, relying on server-side TTL expiry.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis using a URL of the form
// redis://[user:pass@]host:port/db.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connecting to redis")
	}
	return &RedisCache{client: client}, nil
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "reading from redis")
	}
	return data, true, nil
}

// Set implements [Cache]. A zero ttl stores the value without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing to redis")
	}
	return nil
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "deleting from redis")
	}
	return nil
}

// Close implements [Cache].
func (c *RedisCache) Close() error { return c.client.Close() }
