package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache shared between server replicas.
type RedisCache struct {
	client *redis.Client

	// Backoff governs retries of transient failures.
	Backoff Backoff
}

// NewRedisCache connects to the Redis server at url
// (redis://[user:password@]host:port/db) and pings it.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts))
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. The cache takes
// ownership and closes it in Close.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, Backoff: DefaultBackoff}
}

// Get retrieves a value. Transient failures are retried with backoff.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.Backoff.Do(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return classify(ctx, err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A ttl of zero never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.Backoff.Do(ctx, func() error {
		return classify(ctx, c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.Backoff.Do(ctx, func() error {
		return classify(ctx, c.client.Del(ctx, key).Err())
	})
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks errors worth retrying: anything except a miss or the
// end of the caller's ctx. Dial and read timeouts also satisfy
// errors.Is(err, context.DeadlineExceeded), so ctx itself decides.
func classify(ctx context.Context, err error) error {
	switch {
	case err == nil, errors.Is(err, redis.Nil):
		return err
	case ctx.Err() != nil:
		return err
	default:
		return Retryable(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
}

var _ Cache = (*RedisCache)(nil)
