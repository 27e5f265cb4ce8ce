package service

import (
	"context"
	"errors"
	"time"

	"lifeclock/internal/audit"
	"lifeclock/internal/auth/models"
	"lifeclock/internal/auth/secrets"
	lifespan "lifeclock/internal/lifespan/models"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/requestcontext"
)

// Profile is a user joined with their account person.
type Profile struct {
	User      *models.User
	Sex       lifespan.Sex
	BirthDate time.Time
}

// UpdateInput carries the fields a user may change about their own account.
type UpdateInput struct {
	Email    string
	Password string
}

// FindUser returns the user's profile. A user whose account person is gone
// is reported as not found.
func (s *Service) FindUser(ctx context.Context, userID id.UserID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateUserErr(err, "failed to load user")
	}
	account, err := s.persons.FindAccountPerson(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account person")
	}
	return &Profile{User: user, Sex: account.Sex, BirthDate: account.BirthDate}, nil
}

func (s *Service) UpdateUser(ctx context.Context, userID id.UserID, in UpdateInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return translateUserErr(err, "failed to load user")
	}

	if in.Email != user.Email {
		other, err := s.users.FindByEmail(ctx, in.Email)
		switch {
		case err == nil && other.ID != userID:
			return dErrors.New(dErrors.CodeConflict, "email is already registered")
		case err != nil && !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
		}
	}

	hash, err := secrets.Hash(in.Password)
	if err != nil {
		return err
	}
	user.Email = in.Email
	user.PasswordHash = hash
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Update(ctx, user); err != nil {
		return translateUserErr(err, "failed to update user")
	}

	s.emit(ctx, audit.EventUserUpdated, userID, nil)
	return nil
}

// DeleteUser removes the user and every person they own, then revokes the
// token used for the request.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID, jti string, expiresAt time.Time) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return translateUserErr(err, "failed to lookup user")
		}
		if err := s.persons.DeleteByUser(ctx, userID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete persons")
		}
		if err := s.users.Delete(ctx, userID); err != nil {
			return translateUserErr(err, "failed to delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.revoke(ctx, jti, expiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke token of deleted user",
			"error", err,
			"user_id", userID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	s.metrics.IncrementUsersDeleted()
	s.emit(ctx, audit.EventUserDeleted, userID, nil)
	return nil
}
