package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lfsgate/lfsgate/pkg/lfs"
)

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

// renderJSON renders a JSON response with the given status code and value. It
// also sets the Content-Type header to the LFS media type.
func renderJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", lfs.MediaType)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

// renderError renders a request level LFS error. The message must never
// contain the caller's credential.
func renderError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	renderJSON(w, statusCode, lfs.ErrorResponse{
		Message:   message,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "not found")
}

func renderMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
