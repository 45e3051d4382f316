// Package batch turns validated batch requests into per-object transfer
// actions or errors.
package batch

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/lfs"
	"github.com/lfsgate/lfsgate/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the number of objects processed at once.
	DefaultConcurrency = 16

	// DefaultExpiry is the lifetime of a signed action URL.
	DefaultExpiry = time.Hour
)

var objectCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lfsgate",
	Subsystem: "batch",
	Name:      "objects_total",
	Help:      "The total number of processed batch objects",
}, []string{"operation", "result"})

// Processor resolves each object of a batch against the object store.
type Processor struct {
	store       storage.ObjectStore
	signer      storage.Signer
	concurrency int
	expiry      time.Duration
	now         func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets how many objects are processed at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = n
	}
}

// WithExpiry sets the lifetime of signed URLs.
func WithExpiry(d time.Duration) Option {
	return func(p *Processor) {
		p.expiry = d
	}
}

// NewProcessor returns a new Processor.
func NewProcessor(store storage.ObjectStore, signer storage.Signer, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		signer: signer,
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if p.expiry <= 0 {
		p.expiry = DefaultExpiry
	}
	return p
}

// Process returns one result per object, in request order. Failures are
// reported per object and never fail the batch.
func (p *Processor) Process(ctx context.Context, target admission.Target, operation string, objects []lfs.Pointer) []*lfs.ObjectResponse {
	results := make([]*lfs.ObjectResponse, len(objects))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.FromContext(ctx).WithPrefix("batch").Error("panic while processing object", "oid", obj.Oid, "panic", r)
					results[i] = p.fail(operation, obj, http.StatusInternalServerError, "internal server error")
				}
			}()
			results[i] = p.object(ctx, target, operation, obj)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Processor) object(ctx context.Context, target admission.Target, operation string, obj lfs.Pointer) *lfs.ObjectResponse {
	logger := log.FromContext(ctx).WithPrefix("batch")
	key := obj.StorageKey(target.Org, target.Repo)

	size, exists, err := p.store.Stat(ctx, key)
	if err != nil {
		logger.Error("failed to stat object", "oid", obj.Oid, "err", err)
		return p.fail(operation, obj, http.StatusInternalServerError, "internal server error")
	}

	switch operation {
	case lfs.OperationDownload:
		if !exists {
			return p.fail(operation, obj, http.StatusNotFound, "object not found")
		}
		if size != obj.Size {
			return p.fail(operation, obj, http.StatusUnprocessableEntity, "size mismatch")
		}
		return p.action(ctx, operation, obj, key, lfs.ActionDownload, http.MethodGet)
	default:
		if exists && size == obj.Size {
			objectCounter.WithLabelValues(operation, "present").Inc()
			return &lfs.ObjectResponse{Pointer: obj}
		}
		if exists {
			logger.Warn("overwriting object with mismatched size", "oid", obj.Oid, "stored", size, "requested", obj.Size)
		}
		return p.action(ctx, operation, obj, key, lfs.ActionUpload, http.MethodPut)
	}
}

func (p *Processor) action(ctx context.Context, operation string, obj lfs.Pointer, key, name, method string) *lfs.ObjectResponse {
	now := p.now()
	href, err := p.signer.Sign(ctx, key, method, p.expiry)
	if err != nil {
		log.FromContext(ctx).WithPrefix("batch").Error("failed to sign url", "oid", obj.Oid, "err", err)
		return p.fail(operation, obj, http.StatusInternalServerError, "internal server error")
	}

	expiresAt := now.Add(p.expiry).UTC().Truncate(time.Second)
	objectCounter.WithLabelValues(operation, "action").Inc()

	return &lfs.ObjectResponse{
		Pointer: obj,
		Actions: map[string]*lfs.Link{
			name: {
				Href:      href,
				ExpiresIn: int64(p.expiry / time.Second),
				ExpiresAt: &expiresAt,
			},
		},
	}
}

func (p *Processor) fail(operation string, obj lfs.Pointer, code int, msg string) *lfs.ObjectResponse {
	objectCounter.WithLabelValues(operation, "error").Inc()
	return &lfs.ObjectResponse{
		Pointer: obj,
		Error: &lfs.ObjectError{
			Code:    code,
			Message: msg,
		},
	}
}

// Assemble builds the batch response. The hash algorithm is echoed only
// when the client supplied one.
func Assemble(results []*lfs.ObjectResponse, hashAlgo string) lfs.BatchResponse {
	if results == nil {
		results = []*lfs.ObjectResponse{}
	}
	return lfs.BatchResponse{
		Transfer: lfs.TransferBasic,
		Objects:  results,
		HashAlgo: hashAlgo,
	}
}
