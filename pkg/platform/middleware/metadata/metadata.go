package metadata

import (
	"net"
	"net/http"
	"strings"

	"lifeclock/pkg/requestcontext"
)

// ClientMetadata stores the client IP and User-Agent in the request context.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest prefers the first X-Forwarded-For hop, then X-Real-IP,
// then RemoteAddr without its port.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
