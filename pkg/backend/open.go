package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lfsgate/lfsgate/pkg/cache"
	"github.com/lfsgate/lfsgate/pkg/cache/lru"
	_ "github.com/lfsgate/lfsgate/pkg/cache/noop" // noop cache
	"github.com/lfsgate/lfsgate/pkg/cache/redis"
	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/lfsgate/lfsgate/pkg/oracle"
	"github.com/lfsgate/lfsgate/pkg/storage"
)

// NewCache returns the permission cache backend named in the config.
func NewCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	c, err := cache.New(ctx, cfg.Cache.Backend,
		lru.WithSize(cfg.Cache.Size),
		lru.WithTTL(cfg.Cache.TTL),
		redis.WithConfig(redis.Config{
			URL:      cfg.Cache.Redis.URL,
			Addr:     cfg.Cache.Redis.Addr,
			Username: cfg.Cache.Redis.Username,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}),
	)
	if errors.Is(err, cache.ErrCacheNotFound) {
		return nil, fmt.Errorf("cache %q: %w, available backends: %s",
			cfg.Cache.Backend, err, strings.Join(cache.Backends(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("cache %q: %w", cfg.Cache.Backend, err)
	}
	return c, nil
}

// NewStorage returns the object store and URL signer named in the config.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
	case "local":
		signer, err := storage.NewJWTSigner(cfg.Storage.PublicURL, []byte(cfg.Storage.SigningSecret))
		if err != nil {
			return nil, err
		}
		return storage.Local{
			LocalStorage: storage.NewLocalStorage(cfg.Storage.LocalRoot),
			JWTSigner:    signer,
		}, nil
	default:
		return nil, fmt.Errorf("invalid storage backend %q", cfg.Storage.Backend)
	}
}

// Open builds a backend and all of its dependencies from the config.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	c, err := NewCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	o, err := oracle.NewGitHub(oracle.GitHubConfig{
		APIURL:    cfg.Oracle.APIURL,
		UserAgent: cfg.Oracle.UserAgent,
		Timeout:   cfg.Oracle.Timeout,
	})
	if err != nil {
		return nil, errors.Join(err, closeCache(c))
	}

	st, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, closeCache(c))
	}

	return New(ctx, cfg, c, o, st, st), nil
}

// Close releases the resources held by the backend.
func (b *Backend) Close() error {
	return closeCache(b.cache)
}

func closeCache(c cache.Cache) error {
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
