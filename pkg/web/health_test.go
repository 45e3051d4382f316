package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/matryer/is"
)

func TestHealth(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t, readWrite(), nil, nil)

	resp, err := srv.Client().Get(srv.URL + "/health")
	is.NoErr(err)
	defer resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusOK)
	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)
	is.Equal(string(body), "{\"status\":\"ok\"}\n")
}

func TestProbes(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t, readWrite(), nil, nil)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := srv.Client().Get(srv.URL + path)
		is.NoErr(err)
		resp.Body.Close() //nolint:errcheck,gosec
		is.Equal(resp.StatusCode, http.StatusOK)
	}
}

func TestReadinessWithoutBackend(t *testing.T) {
	is := is.New(t)
	ctx := config.WithContext(context.Background(), config.DefaultConfig())
	srv := httptest.NewServer(NewRouter(ctx))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/readyz")
	is.NoErr(err)
	defer resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)
}

func TestNotFound(t *testing.T) {
	is := is.New(t)
	srv := newTestServer(t, readWrite(), nil, nil)

	resp, err := srv.Client().Get(srv.URL + "/nope")
	is.NoErr(err)
	defer resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusNotFound)
}
