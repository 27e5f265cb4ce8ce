package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	id "lifeclock/pkg/domain"
	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/requestcontext"
)

// CookieName is the cookie set by createAuthToken and read back here.
const CookieName = "auth_token"

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker defines the interface for checking if tokens are revoked
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID    string
	JTI       string // JWT ID for revocation tracking
	ExpiresAt time.Time
}

// TokenFromRequest returns the bearer token, falling back to the auth cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && after != "" {
		return after, true
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized", Message: message})
}

func RequireAuth(validator JWTValidator, revocationChecker TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := TokenFromRequest(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			userID, err := id.ParseUserID(claims.UserID)
			if err != nil || claims.JTI == "" {
				logger.WarnContext(ctx, "unauthorized access - incomplete claims",
					"request_id", requestID,
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			if revocationChecker != nil {
				revoked, err := revocationChecker.IsTokenRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
						Error:   "internal_error",
						Message: "failed to validate token",
					})
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access - token revoked",
						"jti", claims.JTI,
						"request_id", requestID,
					)
					writeUnauthorized(w, "token has been revoked")
					return
				}
			}

			ctx = requestcontext.WithUserID(ctx, userID)
			ctx = requestcontext.WithToken(ctx, claims.JTI, claims.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
