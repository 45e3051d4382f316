package lru

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lfsgate/lfsgate/pkg/cache"
)

func init() {
	cache.Register("lru", newCache)
}

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 10000

type entry struct {
	value   string
	expires time.Time
}

// Cache is a memory cache that uses a LRU cache policy. Entries also expire
// after their TTL, bounded by the cache-wide TTL.
type Cache struct {
	cache *expirable.LRU[string, entry]
	size  int
	ttl   time.Duration
	now   func() time.Time
}

var _ cache.Cache = (*Cache)(nil)

// WithSize sets the cache size.
func WithSize(s int) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok {
			ca.size = s
		}
	}
}

// WithTTL sets the maximum lifetime of any entry. Zero disables the
// cache-wide expiry.
func WithTTL(ttl time.Duration) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok {
			ca.ttl = ttl
		}
	}
}

// newCache returns a new Cache.
func newCache(_ context.Context, opts ...cache.Option) (cache.Cache, error) {
	return New(opts...), nil
}

// New returns a new Cache.
func New(opts ...cache.Option) *Cache {
	c := &Cache{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.size <= 0 {
		c.size = DefaultSize
	}

	c.cache = expirable.NewLRU[string, entry](c.size, nil, c.ttl)

	return c
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := c.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.cache.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, val string, opts ...cache.ItemOption) error {
	item := cache.NewItem(opts...)
	e := entry{value: val}
	if item.TTL > 0 {
		e.expires = c.now().Add(item.TTL)
	}
	c.cache.Add(key, e)
	return nil
}
