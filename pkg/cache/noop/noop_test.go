package noop

import (
	"context"
	"testing"

	"github.com/lfsgate/lfsgate/pkg/cache"
	"github.com/matryer/is"
)

func TestNoop(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c, err := cache.New(ctx, "noop")
	is.NoErr(err)
	is.NoErr(c.Set(ctx, "k", "v"))
	_, ok, err := c.Get(ctx, "k")
	is.NoErr(err)
	is.True(!ok)
}
