package redis

import (
	"context"
	"errors"
	"fmt"
	"movieapi/cache"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout also bounds reads and writes.
	DialTimeout time.Duration
}

func NewClient(opts Options) *goredis.Client {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

// CacheBackend implements [cache.Backend]. Redis expires keys itself.
type CacheBackend struct {
	client goredis.Cmdable
}

func NewCacheBackend(client goredis.Cmdable) *CacheBackend {
	return &CacheBackend{client: client}
}

func (b *CacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %q: %w", key, err)
	}
	return value, nil
}

func (b *CacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}
