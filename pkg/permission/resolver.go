package permission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/oracle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultTimeout bounds a single oracle call.
const DefaultTimeout = 10 * time.Second

// RateLimitError is returned when the oracle rate limited the lookup.
type RateLimitError = oracle.RateLimitError

// ErrUpstreamUnavailable is returned when the oracle could not be consulted.
var ErrUpstreamUnavailable = errors.New("upstream permission service unavailable")

var (
	cacheCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lfsgate",
		Subsystem: "permission",
		Name:      "cache_lookups_total",
		Help:      "The total number of permission cache lookups",
	}, []string{"result"})

	oracleCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lfsgate",
		Subsystem: "permission",
		Name:      "oracle_calls_total",
		Help:      "The total number of permission oracle calls",
	}, []string{"outcome"})
)

// Resolver resolves the permission level of a credential on a repository,
// consulting the cache before the oracle.
type Resolver struct {
	cache   *Cache
	oracle  oracle.Oracle
	timeout time.Duration
}

// NewResolver returns a new Resolver.
func NewResolver(c *Cache, o oracle.Oracle, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{cache: c, oracle: o, timeout: timeout}
}

// Resolve returns the permission level for the credential on target.
// Rate limiting is reported as a *RateLimitError and any other oracle
// failure wraps ErrUpstreamUnavailable. Nothing is cached on failure.
func (r *Resolver) Resolve(ctx context.Context, credential string, target admission.Target) (access.AccessLevel, error) {
	logger := log.FromContext(ctx).WithPrefix("permission")

	if level, ok := r.cache.Get(ctx, credential, target); ok {
		cacheCounter.WithLabelValues("hit").Inc()
		return level, nil
	}
	cacheCounter.WithLabelValues("miss").Inc()

	octx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var level access.AccessLevel
	res, err := r.oracle.Permission(octx, credential, target)
	switch {
	case err == nil:
		oracleCounter.WithLabelValues("granted").Inc()
		level = res.Level()
	case errors.Is(err, oracle.ErrNotFound):
		oracleCounter.WithLabelValues("not_found").Inc()
		level = access.NoAccess
	default:
		var rl *RateLimitError
		if errors.As(err, &rl) {
			oracleCounter.WithLabelValues("rate_limited").Inc()
			logger.Warn("permission lookup rate limited", "repo", target.String(), "retry_after", rl.RetryAfter)
			return access.NoAccess, rl
		}
		oracleCounter.WithLabelValues("unavailable").Inc()
		logger.Error("permission lookup failed", "repo", target.String(), "err", err)
		if errors.Is(err, ErrUpstreamUnavailable) {
			return access.NoAccess, err
		}
		return access.NoAccess, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	if err := r.cache.Put(ctx, credential, target, level); err != nil {
		logger.Warn("failed to cache permission", "repo", target.String(), "err", err)
	}

	logger.Debug("resolved permission", "repo", target.String(), "level", level)

	return level, nil
}
