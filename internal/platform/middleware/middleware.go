// Package middleware holds the HTTP middleware chain shared by every route.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/requestcontext"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses a sane inbound X-Request-ID or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger logs one line per request with method, path, status and duration.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
			}
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logger.ErrorContext(ctx, "request completed", attrs...)
			case ww.Status() >= http.StatusBadRequest:
				logger.WarnContext(ctx, "request completed", attrs...)
			default:
				logger.InfoContext(ctx, "request completed", attrs...)
			}
		})
	}
}

// Recovery turns a handler panic into a 500.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				logger.ErrorContext(ctx, "panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
					Error:   "internal_error",
					Message: "internal server error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout bounds the request context. Handlers that return after the deadline
// without writing get a 504.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.BytesWritten() == 0 && ww.Status() == 0 {
				httputil.WriteJSON(w, http.StatusGatewayTimeout, httputil.ErrorResponse{
					Error:   "timeout",
					Message: "request timed out",
				})
			}
		})
	}
}

// ContentTypeJSON rejects bodies on POST/PUT/PATCH that are not JSON. Routes
// that accept other media types must be mounted outside it.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if r.ContentLength == 0 {
				break
			}
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
					Error:   "unsupported_media_type",
					Message: "Content-Type must be application/json",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// LatencyObserver receives one observation per request.
type LatencyObserver interface {
	ObserveRequest(method, route, status string, seconds float64)
}

// Latency records request duration by chi route pattern so path parameters
// do not explode label cardinality.
func Latency(observer LatencyObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observer.ObserveRequest(r.Method, route, strconv.Itoa(status), time.Since(start).Seconds())
		})
	}
}
