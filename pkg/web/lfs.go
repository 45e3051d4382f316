package web

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/lfsgate/lfsgate/pkg/admission"
	"github.com/lfsgate/lfsgate/pkg/backend"
	"github.com/lfsgate/lfsgate/pkg/config"
	"github.com/lfsgate/lfsgate/pkg/lfs"
	"github.com/lfsgate/lfsgate/pkg/permission"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var batchCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lfsgate",
	Subsystem: "http",
	Name:      "batch_requests_total",
	Help:      "The total number of LFS batch requests by response status",
}, []string{"status"})

// LfsController registers the LFS batch API route.
func LfsController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/{org}/{repo}/info/lfs/objects/batch", serviceLfsBatch).
		Methods(http.MethodPost)
}

// askCredentials adds the challenge headers git and git-lfs use to prompt
// for credentials.
func askCredentials(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Git" charset="UTF-8", Token, Bearer`)
	w.Header().Set("LFS-Authenticate", `Basic realm="Git LFS" charset="UTF-8", Token, Bearer`)
}

// POST: /<org>/<repo>.git/info/lfs/objects/batch
func serviceLfsBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithPrefix("http.lfs")
	be := backend.FromContext(ctx)
	if be == nil {
		renderError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	vars := mux.Vars(r)
	target := admission.Target{
		Org:  vars["org"],
		Repo: strings.TrimSuffix(vars["repo"], ".git"),
	}

	body := r.Body
	if cfg := config.FromContext(ctx); cfg != nil && cfg.HTTP.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, cfg.HTTP.MaxBodyBytes)
	}

	resp, err := be.Batch(ctx, backend.BatchRequest{
		Authorization: r.Header.Get("Authorization"),
		Target:        target,
		Body:          body,
	})
	if err != nil {
		status := renderBatchError(w, r, err)
		batchCounter.WithLabelValues(strconv.Itoa(status)).Inc()
		if status >= http.StatusInternalServerError {
			logger.Error("batch request failed", "status", status, "err", err)
		} else {
			logger.Debug("batch request rejected", "status", status, "err", err)
		}
		return
	}

	batchCounter.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	renderJSON(w, http.StatusOK, resp)
}

// renderBatchError maps a request level error to its response and returns
// the status written.
func renderBatchError(w http.ResponseWriter, r *http.Request, err error) int {
	var (
		verr *lfs.ValidationError
		rl   *permission.RateLimitError
	)

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		askCredentials(w, r)
		renderError(w, r, http.StatusUnauthorized, "credentials required")
		return http.StatusUnauthorized
	case errors.Is(err, admission.ErrOrgNotAllowed), errors.Is(err, backend.ErrForbidden):
		renderError(w, r, http.StatusForbidden, "forbidden")
		return http.StatusForbidden
	case errors.Is(err, admission.ErrInvalidRepo):
		renderError(w, r, http.StatusBadRequest, "invalid repository name")
		return http.StatusBadRequest
	case errors.As(err, &verr):
		renderError(w, r, verr.Status, verr.Message)
		return verr.Status
	case errors.As(err, &rl):
		if rl.RetryAfter > 0 {
			secs := int64(math.Ceil(rl.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		}
		renderError(w, r, http.StatusTooManyRequests, "rate limited, retry later")
		return http.StatusTooManyRequests
	case errors.Is(err, permission.ErrUpstreamUnavailable):
		renderError(w, r, http.StatusBadGateway, "upstream permission service unavailable")
		return http.StatusBadGateway
	default:
		renderError(w, r, http.StatusInternalServerError, "internal server error")
		return http.StatusInternalServerError
	}
}
