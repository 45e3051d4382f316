package cache

import (
	"context"
	"time"
)

// Item holds the settings of a single cache entry.
type Item struct {
	// TTL is the lifetime of the entry. Zero means the backend default.
	TTL time.Duration
}

// ItemOption is an option for setting cache items.
type ItemOption func(*Item)

// WithTTL sets the TTL for the cache item.
func WithTTL(ttl time.Duration) ItemOption {
	return func(i *Item) {
		i.TTL = ttl
	}
}

// NewItem applies the given options to a new Item.
func NewItem(opts ...ItemOption) Item {
	var i Item
	for _, o := range opts {
		o(&i)
	}
	return i
}

// Option is an option for creating new cache. Options meant for another
// backend are ignored.
type Option func(Cache)

// Cache is a string key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry is
	// reported with ok false and a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, val string, opts ...ItemOption) error
}
