package service

import (
	"context"
	"time"

	"lifeclock/internal/audit"
	"lifeclock/internal/auth/models"
	"lifeclock/internal/auth/secrets"
	lifespan "lifeclock/internal/lifespan/models"
	personmodels "lifeclock/internal/person/models"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/requestcontext"
)

// SignupInput is a validated signup request.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	Sex       lifespan.Sex
	BirthDate time.Time
}

// Signup creates the user and their account person in one unit of work.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Signup")
	defer span.End()

	hash, err := secrets.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		ID:           id.NewUserID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account := &personmodels.Person{
		ID:            id.NewPersonID(),
		UserID:        user.ID,
		Name:          in.Username,
		Sex:           in.Sex,
		BirthDate:     in.BirthDate,
		IsAccountUser: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return translateUserErr(err, "failed to create user")
		}
		if err := s.persons.Create(ctx, account); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account person")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.IncrementUsersCreated()
	s.metrics.IncrementPersonsCreated(1)
	s.emit(ctx, audit.EventUserCreated, user.ID, nil)
	s.logger.InfoContext(ctx, "user signed up",
		"user_id", user.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}
