// Package storage provides the object store and URL signing capabilities
// the batch endpoint relies on. Object bytes never pass through this
// process; it only checks what exists and hands out signed URLs.
package storage

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrUnsupportedMethod is returned when asked to sign a URL for a method
// other than GET or PUT.
var ErrUnsupportedMethod = errors.New("unsupported method")

// ObjectStore reports the presence and size of stored objects.
type ObjectStore interface {
	// Stat returns the size of the object stored under key. exists is false
	// when there is no such object, in which case err is nil.
	Stat(ctx context.Context, key string) (size int64, exists bool, err error)
}

// Signer produces time limited URLs for transferring an object directly
// with the store.
type Signer interface {
	Sign(ctx context.Context, key string, method string, expiry time.Duration) (string, error)
}

// Backend is a store that can also sign URLs for its objects.
type Backend interface {
	ObjectStore
	Signer
}

func checkMethod(method string) error {
	switch method {
	case http.MethodGet, http.MethodPut:
		return nil
	default:
		return ErrUnsupportedMethod
	}
}
