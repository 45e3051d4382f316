package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lfsgate/lfsgate/pkg/cache"
	"github.com/redis/go-redis/v9"
)

func init() {
	cache.Register("redis", NewCache)
}

const pingTimeout = 3 * time.Second

// Cache is a Redis cache.
type Cache struct {
	client *redis.Client
	cfg    Config
}

var _ cache.Cache = (*Cache)(nil)

// WithConfig sets the Redis connection configuration.
func WithConfig(cfg Config) cache.Option {
	return func(c cache.Cache) {
		if rc, ok := c.(*Cache); ok {
			rc.cfg = cfg
		}
	}
}

// NewCache returns a new Redis cache. It fails if the server cannot be
// reached.
func NewCache(ctx context.Context, opts ...cache.Option) (cache.Cache, error) {
	c := &Cache{cfg: DefaultConfig()}
	for _, o := range opts {
		o(c)
	}

	ropts, err := c.cfg.Options()
	if err != nil {
		return nil, err
	}
	c.client = redis.NewClient(ropts)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.client.Ping(pctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return c, nil
}

// Get implements cache.Cache.
func (r *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

// Set implements cache.Cache.
func (r *Cache) Set(ctx context.Context, key string, val string, opts ...cache.ItemOption) error {
	item := cache.NewItem(opts...)
	return r.client.Set(ctx, key, val, item.TTL).Err()
}

// Close closes the underlying client.
func (r *Cache) Close() error {
	return r.client.Close()
}
