package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	// URL takes precedence over Addr, e.g. "redis://:secret@localhost:6379/2".
	URL      string
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key.
	Prefix string
}

// RedisCache stores entries in Redis so several server replicas share results.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and pings it. Transient connection failures
// are retried with backoff.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	ro := &redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		ro = parsed
	}
	if ro.Addr == "" {
		ro.Addr = "localhost:6379"
	}

	c := NewRedisCacheFromClient(redis.NewClient(ro), opts.Prefix)
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", ro.Addr, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get returns the value stored under key. redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data under key. A zero ttl keeps the key until it is evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, c.prefix+key).Err())
	})
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks network failures as retryable and leaves redis.Nil and
// server replies untouched.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
