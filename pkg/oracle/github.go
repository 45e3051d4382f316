package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v66/github"
	"github.com/lfsgate/lfsgate/pkg/admission"
)

// DefaultGitHubAPIURL is the public GitHub REST API.
const DefaultGitHubAPIURL = "https://api.github.com/"

// GitHubConfig configures the GitHub oracle.
type GitHubConfig struct {
	// APIURL is the base URL of the GitHub REST API.
	APIURL string
	// UserAgent is sent with every request.
	UserAgent string
	// HTTPClient is used for requests. Defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout bounds a single request when HTTPClient is not set.
	Timeout time.Duration
}

// GitHub resolves permissions through the GitHub repositories API.
type GitHub struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
	now       func() time.Time
}

var _ Oracle = (*GitHub)(nil)

// NewGitHub returns a GitHub oracle.
func NewGitHub(cfg GitHubConfig) (*GitHub, error) {
	api := cfg.APIURL
	if api == "" {
		api = DefaultGitHubAPIURL
	}
	if !strings.HasSuffix(api, "/") {
		api += "/"
	}
	base, err := url.Parse(api)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GitHub{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		client:    client,
		now:       time.Now,
	}, nil
}

// newClient returns a client per call so that rate limit state observed for
// one credential never blocks another.
func (g *GitHub) newClient(credential string) *github.Client {
	c := github.NewClient(g.client).WithAuthToken(credential)
	c.BaseURL = g.baseURL
	if g.userAgent != "" {
		c.UserAgent = g.userAgent
	}
	return c
}

// Permission implements Oracle.
func (g *GitHub) Permission(ctx context.Context, credential string, target admission.Target) (Result, error) {
	logger := log.FromContext(ctx).WithPrefix("oracle.github")

	repo, _, err := g.newClient(credential).Repositories.Get(ctx, target.Org, target.Repo)
	if err != nil {
		err = g.classify(err)
		logger.Debug("repository lookup failed", "repo", target.String(), "err", err)
		return Result{}, err
	}

	return Result{
		Permissions: repo.Permissions,
		Private:     repo.GetPrivate(),
	}, nil
}

func (g *GitHub) classify(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{RetryAfter: g.until(rateErr.Rate.Reset.Time)}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{RetryAfter: max(abuseErr.GetRetryAfter(), 0)}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch code := respErr.Response.StatusCode; {
		case code == http.StatusTooManyRequests:
			return &RateLimitError{RetryAfter: g.retryAfter(respErr.Response.Header)}
		case code == http.StatusNotFound, code == http.StatusUnauthorized, code == http.StatusForbidden:
			return ErrNotFound
		default:
			return fmt.Errorf("%w: github returned %d", ErrUnavailable, code)
		}
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// retryAfter reads the wait hint from a rate limited response.
func (g *GitHub) retryAfter(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return g.until(time.Unix(epoch, 0))
		}
	}
	return 0
}

func (g *GitHub) until(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return max(t.Sub(g.now()), 0)
}
