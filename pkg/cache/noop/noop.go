package noop

import (
	"context"

	"github.com/lfsgate/lfsgate/pkg/cache"
)

func init() {
	cache.Register("noop", NewCache)
}

type noopCache struct{}

// NewCache returns a cache that never stores anything.
func NewCache(_ context.Context, _ ...cache.Option) (cache.Cache, error) {
	return &noopCache{}, nil
}

// Get implements Cache.
func (*noopCache) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

// Set implements Cache.
func (*noopCache) Set(_ context.Context, _ string, _ string, _ ...cache.ItemOption) error {
	return nil
}

var _ cache.Cache = &noopCache{}
