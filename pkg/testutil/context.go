package testutil

import (
	"net/http"
	"time"

	id "lifeclock/pkg/domain"
	"lifeclock/pkg/requestcontext"
)

// AsUser marks the request as authenticated for userID, as the auth
// middleware would after validating a token with the given jti.
func AsUser(req *http.Request, userID id.UserID, jti string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithToken(ctx, jti, time.Now().Add(time.Hour))
	return req.WithContext(ctx)
}

// AtTime pins requestcontext.Now for the request.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
