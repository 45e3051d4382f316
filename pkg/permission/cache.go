package permission

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/cache"
	"github.com/lfsgate/lfsgate/pkg/token"
)

const (
	// KeyPrefix prefixes every permission cache key.
	KeyPrefix = "lfsgate:perm:"

	// DefaultTTL is the lifetime of a cached permission.
	DefaultTTL = 300 * time.Second
)

// Key returns the cache key for a credential and target. The credential
// only appears hashed.
func Key(credential string, target admission.Target) string {
	return KeyPrefix + token.Hash(credential) + ":" + target.Org + "/" + target.Repo
}

// Cache stores resolved permission levels.
type Cache struct {
	backend cache.Cache
	ttl     time.Duration
}

// NewCache returns a permission cache over the given backend.
func NewCache(backend cache.Cache, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{backend: backend, ttl: ttl}
}

// Get returns the cached level. Misses, expired entries, backend errors and
// undecodable values are all reported as absent.
func (c *Cache) Get(ctx context.Context, credential string, target admission.Target) (access.AccessLevel, bool) {
	val, ok, err := c.backend.Get(ctx, Key(credential, target))
	if err != nil {
		log.FromContext(ctx).WithPrefix("permission").Warn("cache lookup failed", "repo", target.String(), "err", err)
		return access.NoAccess, false
	}
	if !ok {
		return access.NoAccess, false
	}

	var level access.AccessLevel
	if err := level.UnmarshalText([]byte(val)); err != nil {
		return access.NoAccess, false
	}

	return level, true
}

// Put stores a level for the configured TTL.
func (c *Cache) Put(ctx context.Context, credential string, target admission.Target, level access.AccessLevel) error {
	return c.backend.Set(ctx, Key(credential, target), level.String(), cache.WithTTL(c.ttl))
}
