package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/matryer/is"
)

const testCred = "ghp_testtoken123"

var testTarget = admission.Target{Org: "acme", Repo: "widgets"}

func newTestGitHub(t *testing.T, h http.HandlerFunc) *GitHub {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g, err := NewGitHub(GitHubConfig{APIURL: srv.URL, UserAgent: "lfsgate-test", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGitHubPermission(t *testing.T) {
	cases := []struct {
		name string
		body string
		out  access.AccessLevel
	}{
		{"admin", `{"private":true,"permissions":{"admin":true,"push":true,"pull":true}}`, access.AdminAccess},
		{"push", `{"private":true,"permissions":{"admin":false,"push":true,"pull":true}}`, access.ReadWriteAccess},
		{"pull", `{"private":false,"permissions":{"admin":false,"push":false,"pull":true}}`, access.ReadOnlyAccess},
		{"public no permissions", `{"private":false}`, access.ReadOnlyAccess},
		{"private no permissions", `{"private":true}`, access.NoAccess},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := is.New(t)
			g := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
				is.Equal(r.URL.Path, "/repos/acme/widgets")
				is.Equal(r.Header.Get("Authorization"), "Bearer "+testCred)
				is.Equal(r.Header.Get("User-Agent"), "lfsgate-test")
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, c.body)
			})
			res, err := g.Permission(context.Background(), testCred, testTarget)
			is.NoErr(err)
			is.Equal(res.Level(), c.out)
		})
	}
}

func TestGitHubNotFound(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			is := is.New(t)
			g := newTestGitHub(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			})
			_, err := g.Permission(context.Background(), testCred, testTarget)
			is.True(errors.Is(err, ErrNotFound))
		})
	}
}

func TestGitHubRateLimited(t *testing.T) {
	is := is.New(t)
	now := time.Unix(1700000000, 0)
	g := newTestGitHub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(now.Add(60*time.Second).Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	})
	g.now = func() time.Time { return now }

	_, err := g.Permission(context.Background(), testCred, testTarget)
	var rl *RateLimitError
	is.True(errors.As(err, &rl))
	is.Equal(rl.RetryAfter, 60*time.Second)
}

func TestGitHubSecondaryRateLimited(t *testing.T) {
	is := is.New(t)
	g := newTestGitHub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"You have exceeded a secondary rate limit","documentation_url":"https://docs.github.com/rest/overview/resources-in-the-rest-api#secondary-rate-limits"}`)
	})

	_, err := g.Permission(context.Background(), testCred, testTarget)
	var rl *RateLimitError
	is.True(errors.As(err, &rl))
	is.Equal(rl.RetryAfter, 30*time.Second)
}

func TestGitHubTooManyRequests(t *testing.T) {
	is := is.New(t)
	g := newTestGitHub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"slow down"}`)
	})

	_, err := g.Permission(context.Background(), testCred, testTarget)
	var rl *RateLimitError
	is.True(errors.As(err, &rl))
	is.Equal(rl.RetryAfter, 12*time.Second)
}

func TestGitHubServerError(t *testing.T) {
	is := is.New(t)
	g := newTestGitHub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Permission(context.Background(), testCred, testTarget)
	is.True(errors.Is(err, ErrUnavailable))
	var rl *RateLimitError
	is.True(!errors.As(err, &rl))
}

func TestGitHubTimeout(t *testing.T) {
	is := is.New(t)
	done := make(chan struct{})
	g := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	})
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := g.Permission(ctx, testCred, testTarget)
	is.True(errors.Is(err, ErrUnavailable))
}

func TestGitHubUnreachable(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, err := NewGitHub(GitHubConfig{APIURL: url})
	is.NoErr(err)
	_, err = g.Permission(context.Background(), testCred, testTarget)
	is.True(errors.Is(err, ErrUnavailable))
}

func TestRetryAfterClamped(t *testing.T) {
	is := is.New(t)
	now := time.Unix(1700000000, 0)
	g := &GitHub{now: func() time.Time { return now }}
	h := http.Header{}
	h.Set("X-RateLimit-Reset", fmt.Sprint(now.Add(-time.Minute).Unix()))
	is.Equal(g.retryAfter(h), time.Duration(0))
	is.Equal(g.retryAfter(http.Header{}), time.Duration(0))
	is.Equal(g.until(time.Time{}), time.Duration(0))
}
