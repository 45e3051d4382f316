package backend

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/lfsgate/lfsgate/pkg/access"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/batch"
	"github.com/lfsgate/lfsgate/pkg/lfs"
	"github.com/lfsgate/lfsgate/pkg/token"
)

var (
	// ErrUnauthorized is returned when the request carries no valid
	// credential.
	ErrUnauthorized = errors.New("credentials required")

	// ErrForbidden is returned when the credential has no access to the
	// repository, or not enough access for the requested operation.
	ErrForbidden = errors.New("forbidden")
)

// BatchRequest is an incoming LFS batch API call.
type BatchRequest struct {
	// Authorization is the raw Authorization header value.
	Authorization string
	Target        admission.Target
	Body          io.Reader
}

// Batch runs a batch request through the gateway pipeline: credential
// extraction, admission, permission resolution, the operation gate,
// validation and per-object processing. Request level failures are
// returned as errors; per-object failures are part of the response.
func (b *Backend) Batch(ctx context.Context, req BatchRequest) (lfs.BatchResponse, error) {
	logger := log.FromContext(ctx).WithPrefix("backend.lfs")

	cred, ok := token.Extract(req.Authorization)
	if !ok {
		return lfs.BatchResponse{}, ErrUnauthorized
	}

	if err := b.admission.Check(req.Target); err != nil {
		logger.Debug("request not admitted", "repo", req.Target.String(), "err", err)
		return lfs.BatchResponse{}, err
	}

	level, err := b.resolver.Resolve(ctx, cred, req.Target)
	if err != nil {
		return lfs.BatchResponse{}, err
	}

	if level == access.NoAccess {
		logger.Debug("permission denied", "repo", req.Target.String(), "level", level)
		return lfs.BatchResponse{}, ErrForbidden
	}

	wire, err := lfs.DecodeBatchRequest(req.Body)
	if err != nil {
		logger.Debug("malformed batch request", "repo", req.Target.String(), "err", err)
		return lfs.BatchResponse{}, &lfs.ValidationError{
			Status:  http.StatusUnprocessableEntity,
			Message: "malformed batch request",
		}
	}

	if !level.Allows(wire.Operation) {
		logger.Debug("permission denied", "repo", req.Target.String(), "operation", wire.Operation, "level", level)
		return lfs.BatchResponse{}, ErrForbidden
	}

	breq, verr := lfs.ValidateBatch(wire)
	if verr != nil {
		return lfs.BatchResponse{}, verr
	}

	results := b.processor.Process(ctx, req.Target, breq.Operation, breq.Objects)

	logger.Info("batch",
		"repo", req.Target.String(),
		"operation", breq.Operation,
		"objects", len(breq.Objects),
		"level", level)

	return batch.Assemble(results, breq.HashAlgo), nil
}
