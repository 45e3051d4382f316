package backend

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/batch"
	"github.com/lfsgate/lfsgate/pkg/cache"
	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/lfsgate/lfsgate/pkg/oracle"
	"github.com/lfsgate/lfsgate/pkg/permission"
	"github.com/lfsgate/lfsgate/pkg/storage"
)

// Backend is the lfsgate backend that admits batch requests, resolves
// permissions and produces per-object transfer actions.
type Backend struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *log.Logger
	cache     cache.Cache
	admission *admission.Controller
	resolver  *permission.Resolver
	processor *batch.Processor
}

// New returns a new lfsgate backend.
func New(ctx context.Context, cfg *config.Config, c cache.Cache, o oracle.Oracle, st storage.ObjectStore, sg storage.Signer) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	ac := admission.NewController(cfg.Orgs.Allowed)
	if ac.Allowed() == 0 {
		logger.Warn("no organizations are allowed, every batch request will be rejected")
	}
	return &Backend{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		cache:     c,
		admission: ac,
		resolver: permission.NewResolver(
			permission.NewCache(c, cfg.Cache.TTL),
			o,
			cfg.Oracle.Timeout,
		),
		processor: batch.NewProcessor(st, sg,
			batch.WithConcurrency(cfg.Batch.Concurrency),
			batch.WithExpiry(cfg.Batch.ActionExpiry),
		),
	}
}
