package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage is an object store over the local filesystem. Objects are
// transferred by a separate blob host that accepts URLs signed by a
// JWTSigner.
type LocalStorage struct {
	root string
}

var _ ObjectStore = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage.
func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

// Stat implements ObjectStore.
func (l *LocalStorage) Stat(_ context.Context, key string) (int64, bool, error) {
	name := l.fixPath(key)
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to stat file %s: %w", name, err)
	}
	if info.IsDir() {
		return 0, false, nil
	}
	return info.Size(), true, nil
}

// Replace all slashes with the OS-specific separator.
func (l *LocalStorage) fixPath(path string) string {
	path = strings.ReplaceAll(path, "/", string(os.PathSeparator))
	return filepath.Join(l.root, path)
}
