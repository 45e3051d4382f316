// Package oracle defines the upstream authority that reports the permission
// a credential holds on a repository.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/lfsgate/lfsgate/pkg/admission"
)

var (
	// ErrNotFound is returned when the repository does not exist or the
	// credential cannot see it.
	ErrNotFound = errors.New("repository not found")

	// ErrUnavailable is returned when the oracle failed to answer, whether
	// through a server error, a transport error or a timeout.
	ErrUnavailable = errors.New("permission oracle unavailable")
)

// RateLimitError is returned when the oracle refused to answer because the
// caller is rate limited.
type RateLimitError struct {
	// RetryAfter is how long the caller should wait. Zero means unknown.
	RetryAfter time.Duration
}

// Error implements error.
func (e *RateLimitError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited by permission oracle"
	}
	return fmt.Sprintf("rate limited by permission oracle, retry after %s", e.RetryAfter)
}

// Result is a successful oracle answer.
type Result struct {
	// Permissions holds the admin, push and pull flags. It is nil when the
	// oracle did not report any permissions for the credential.
	Permissions map[string]bool
	// Private is true for private repositories.
	Private bool
}

// Level maps the result to an access level. Without a permission signal a
// public repository is readable and a private one is not.
func (r Result) Level() access.AccessLevel {
	if r.Permissions == nil {
		if r.Private {
			return access.NoAccess
		}
		return access.ReadOnlyAccess
	}
	return access.FromPermissions(r.Permissions["admin"], r.Permissions["push"], r.Permissions["pull"])
}

// Oracle reports the permission a credential holds on a repository.
// Implementations return ErrNotFound, a *RateLimitError, or an error
// wrapping ErrUnavailable on failure.
type Oracle interface {
	Permission(ctx context.Context, credential string, target admission.Target) (Result, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, credential string, target admission.Target) (Result, error)

// Permission implements Oracle.
func (f Func) Permission(ctx context.Context, credential string, target admission.Target) (Result, error) {
	return f(ctx, credential, target)
}
