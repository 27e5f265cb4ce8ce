// Package httputil holds the JSON response and request-decoding helpers shared by
// every handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "lifeclock/pkg/domain-errors"
)

// MaxBodyBytes caps decoded request bodies.
const MaxBodyBytes = 1 << 20

// Validatable is implemented by request structs accepted by DecodeAndPrepare.
type Validatable interface {
	Validate() error
}

// Normalizable request structs are normalized before validation.
type Normalizable interface {
	Normalize()
}

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and error envelope. Errors without a
// domain code, and internal errors, are reported with a generic message so
// infrastructure detail never leaks to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := dErrors.MessageOf(err)
	if code == dErrors.CodeInternal {
		message = "internal server error"
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}

// DecodeJSON decodes a single JSON object from the request body, rejecting
// unknown fields and trailing data.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	if dec.More() {
		return dErrors.New(dErrors.CodeBadRequest, "request body must contain a single JSON object")
	}
	return nil
}

// DecodeAndPrepare decodes the body into T, normalizes and validates it. On
// failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	if err := DecodeJSON(r, req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request validation failed",
				"error", err,
				"request_id", requestID,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}
