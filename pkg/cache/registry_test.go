package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

type fakeCache struct {
	Cache
	name string
}

func TestRegistry(t *testing.T) {
	is := is.New(t)

	Register("fake", func(_ context.Context, opts ...Option) (Cache, error) {
		c := &fakeCache{}
		for _, o := range opts {
			o(c)
		}
		return c, nil
	})

	c, err := New(context.Background(), "fake", func(c Cache) {
		if fc, ok := c.(*fakeCache); ok {
			fc.name = "configured"
		}
	})
	is.NoErr(err)
	is.Equal(c.(*fakeCache).name, "configured")
	is.True(contains(Backends(), "fake"))

	_, err = New(context.Background(), "missing")
	is.True(errors.Is(err, ErrCacheNotFound))
}

func TestNewItem(t *testing.T) {
	is := is.New(t)
	is.Equal(NewItem().TTL, time.Duration(0))
	is.Equal(NewItem(WithTTL(time.Minute)).TTL, time.Minute)
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
