// Package requesttime pins a single "now" for the whole request so every
// remaining-time calculation and timestamp inside it agrees.
package requesttime

import (
	"net/http"
	"time"

	"lifeclock/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock is Middleware with an injectable clock.
func MiddlewareWithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
