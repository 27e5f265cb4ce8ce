// Package requestcontext provides HTTP-independent accessors for request-scoped values.
//
// Middleware sets the values; services read them without importing net/http.
//
//	userID := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "lifeclock/pkg/domain"
)

type (
	userIDKey      struct{}
	tokenIDKey     struct{}
	tokenExpiryKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported keys for tests that need context.WithValue.
var (
	ContextKeyUserID      = userIDKey{}
	ContextKeyTokenID     = tokenIDKey{}
	ContextKeyTokenExpiry = tokenExpiryKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Auth context
// -----------------------------------------------------------------------------

// UserID retrieves the authenticated user ID. Returns the nil UUID if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(ContextKeyUserID).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// TokenID retrieves the jti of the access token that authenticated the request.
func TokenID(ctx context.Context) string {
	if jti, ok := ctx.Value(ContextKeyTokenID).(string); ok {
		return jti
	}
	return ""
}

// TokenExpiry retrieves the expiry of the access token, or the zero time.
func TokenExpiry(ctx context.Context) time.Time {
	if exp, ok := ctx.Value(ContextKeyTokenExpiry).(time.Time); ok {
		return exp
	}
	return time.Time{}
}

// WithToken injects the access token's jti and expiry.
func WithToken(ctx context.Context, jti string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, ContextKeyTokenID, jti)
	return context.WithValue(ctx, ContextKeyTokenExpiry, expiresAt)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time, falling back to time.Now() outside a
// request (CLI, workers).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins "now" for the rest of the request.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
