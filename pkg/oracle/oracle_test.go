package oracle

import (
	"testing"
	"time"

	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/matryer/is"
)

func TestResultLevel(t *testing.T) {
	cases := []struct {
		name string
		r    Result
		out  access.AccessLevel
	}{
		{"admin", Result{Permissions: map[string]bool{"admin": true, "push": true, "pull": true}}, access.AdminAccess},
		{"push", Result{Permissions: map[string]bool{"push": true, "pull": true}}, access.ReadWriteAccess},
		{"pull", Result{Permissions: map[string]bool{"pull": true}, Private: true}, access.ReadOnlyAccess},
		{"none", Result{Permissions: map[string]bool{"admin": false, "push": false, "pull": false}}, access.NoAccess},
		{"empty signal", Result{Permissions: map[string]bool{}}, access.NoAccess},
		{"public without signal", Result{}, access.ReadOnlyAccess},
		{"private without signal", Result{Private: true}, access.NoAccess},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(c.r.Level(), c.out)
		})
	}
}

func TestRateLimitError(t *testing.T) {
	is := is.New(t)
	is.Equal((&RateLimitError{}).Error(), "rate limited by permission oracle")
	is.Equal((&RateLimitError{RetryAfter: time.Minute}).Error(), "rate limited by permission oracle, retry after 1m0s")
}
