package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func newTestS3(t *testing.T, endpoint string) *S3Storage {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("AWS_MAX_ATTEMPTS", "1")
	s, err := NewS3Storage(context.Background(), S3Config{
		Endpoint:        endpoint,
		Region:          "auto",
		Bucket:          "lfs",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestS3Stat(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodHead)
		switch r.URL.Path {
		case "/lfs/acme/widgets/ab/cd/present":
			w.Header().Set("Content-Length", "1234")
			w.WriteHeader(http.StatusOK)
		case "/lfs/acme/widgets/ab/cd/broken":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newTestS3(t, srv.URL)
	ctx := context.Background()

	size, ok, err := s.Stat(ctx, "acme/widgets/ab/cd/present")
	is.NoErr(err)
	is.True(ok)
	is.Equal(size, int64(1234))

	_, ok, err = s.Stat(ctx, "acme/widgets/ab/cd/missing")
	is.NoErr(err)
	is.True(!ok)

	_, ok, err = s.Stat(ctx, "acme/widgets/ab/cd/broken")
	is.True(err != nil)
	is.True(!ok)
}

func TestS3Sign(t *testing.T) {
	is := is.New(t)
	s := newTestS3(t, "https://account.r2.cloudflarestorage.com")
	ctx := context.Background()

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		href, err := s.Sign(ctx, "acme/widgets/ab/cd/abcd", method, time.Hour)
		is.NoErr(err)

		u, err := url.Parse(href)
		is.NoErr(err)
		is.Equal(u.Host, "account.r2.cloudflarestorage.com")
		is.Equal(u.Path, "/lfs/acme/widgets/ab/cd/abcd")
		is.Equal(u.Query().Get("X-Amz-Expires"), "3600")
		is.True(u.Query().Get("X-Amz-Signature") != "")
		is.True(strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "AKIDEXAMPLE/"))
	}

	_, err := s.Sign(ctx, "k", http.MethodPost, time.Hour)
	is.True(errors.Is(err, ErrUnsupportedMethod))
}

func TestS3MissingBucket(t *testing.T) {
	is := is.New(t)
	_, err := NewS3Storage(context.Background(), S3Config{Region: "auto"})
	is.True(err != nil)
}
