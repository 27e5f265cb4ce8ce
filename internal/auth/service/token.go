package service

import (
	"context"
	"errors"
	"time"

	"lifeclock/internal/audit"
	"lifeclock/internal/auth/models"
	"lifeclock/internal/auth/secrets"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/requestcontext"
)

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

// CreateAuthToken checks email and password and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) CreateAuthToken(ctx context.Context, email, password string) (*models.IssuedToken, error) {
	ctx, span := s.tracer.Start(ctx, "auth.CreateAuthToken")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordSignIn(false)
			s.authFailure(ctx, "unknown_email")
			return nil, errInvalidCredentials
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		s.metrics.RecordSignIn(false)
		s.authFailure(ctx, "password_mismatch", "user_id", user.ID.String())
		return nil, errInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateAccessToken(user.ID, requestcontext.Now(ctx), s.TokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.RecordSignIn(true)
	s.emit(ctx, audit.EventSignedIn, user.ID, nil)
	return &models.IssuedToken{
		Token:     token,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Signout revokes the presented token. Signing out twice is not an error.
func (s *Service) Signout(ctx context.Context, userID id.UserID, jti string, expiresAt time.Time) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "user ID required")
	}
	if err := s.revoke(ctx, jti, expiresAt); err != nil {
		return err
	}
	s.emit(ctx, audit.EventSignedOut, userID, nil)
	return nil
}
