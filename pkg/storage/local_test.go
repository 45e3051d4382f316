package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLocalStorageStat(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStorage(root)

	key := "acme/widgets/ab/cd/abcd"
	is.NoErr(os.MkdirAll(filepath.Join(root, "acme", "widgets", "ab", "cd"), 0o755))
	is.NoErr(os.WriteFile(filepath.Join(root, "acme", "widgets", "ab", "cd", "abcd"), []byte("hello"), 0o644))

	size, ok, err := s.Stat(ctx, key)
	is.NoErr(err)
	is.True(ok)
	is.Equal(size, int64(5))

	_, ok, err = s.Stat(ctx, "acme/widgets/ff/ff/ffff")
	is.NoErr(err)
	is.True(!ok)

	_, ok, err = s.Stat(ctx, "acme/widgets")
	is.NoErr(err)
	is.True(!ok)
}
