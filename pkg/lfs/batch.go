package lfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
)

// ErrMalformedRequest is returned when a batch request body is not valid JSON.
var ErrMalformedRequest = errors.New("malformed batch request")

// BatchRequestWire is a batch request as it was sent by the client, before
// validation. Sizes are kept as raw JSON so that only integer literals are
// accepted.
type BatchRequestWire struct {
	Operation string        `json:"operation"`
	Transfers []string      `json:"transfers,omitempty"`
	Ref       *Reference    `json:"ref,omitempty"`
	Objects   []PointerWire `json:"objects"`
	HashAlgo  string        `json:"hash_algo,omitempty"`
}

// PointerWire is an object descriptor as it was sent by the client.
type PointerWire struct {
	Oid  string          `json:"oid"`
	Size json.RawMessage `json:"size"`
}

// ValidationError is returned when a batch request fails validation. Status
// is the HTTP status code the request must be rejected with.
type ValidationError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(status int, format string, args ...any) *ValidationError {
	return &ValidationError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// DecodeBatchRequest decodes a batch request body.
func DecodeBatchRequest(r io.Reader) (BatchRequestWire, error) {
	var req BatchRequestWire
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return BatchRequestWire{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return req, nil
}

// ValidateBatch validates a decoded batch request and returns its typed
// form. Checks run in a fixed order and the first failure is reported.
func ValidateBatch(req BatchRequestWire) (BatchRequest, *ValidationError) {
	switch req.Operation {
	case OperationDownload, OperationUpload:
	default:
		return BatchRequest{}, invalid(http.StatusUnprocessableEntity, "invalid operation %q", req.Operation)
	}

	if len(req.Objects) == 0 {
		return BatchRequest{}, invalid(http.StatusUnprocessableEntity, "no objects in batch request")
	}

	if len(req.Objects) > MaxBatchObjects {
		return BatchRequest{}, invalid(http.StatusRequestEntityTooLarge,
			"batch request exceeds the maximum of %d objects", MaxBatchObjects)
	}

	for i, o := range req.Objects {
		if !ValidOid(o.Oid) {
			return BatchRequest{}, invalid(http.StatusUnprocessableEntity, "object %d: invalid oid", i)
		}
	}

	objects := make([]Pointer, len(req.Objects))
	for i, o := range req.Objects {
		size, ok := parseSize(o.Size)
		if !ok {
			return BatchRequest{}, invalid(http.StatusUnprocessableEntity, "object %d: invalid size", i)
		}
		objects[i] = Pointer{Oid: o.Oid, Size: size}
	}

	if req.Transfers != nil && !slices.Contains(req.Transfers, TransferBasic) {
		return BatchRequest{}, invalid(http.StatusUnprocessableEntity, "unsupported transfer adapters, %q is required", TransferBasic)
	}

	if req.HashAlgo != "" && req.HashAlgo != HashAlgorithmSHA256 {
		return BatchRequest{}, invalid(http.StatusConflict, "unsupported hash algorithm %q", req.HashAlgo)
	}

	return BatchRequest{
		Operation: req.Operation,
		Transfers: req.Transfers,
		Ref:       req.Ref,
		Objects:   objects,
		HashAlgo:  req.HashAlgo,
	}, nil
}

// parseSize accepts only plain non-negative integer literals that fit in an
// int64.
func parseSize(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
