package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"lifeclock/internal/audit"
	"lifeclock/internal/auth/models"
	jwttoken "lifeclock/internal/jwt_token"
	personmodels "lifeclock/internal/person/models"
	"lifeclock/internal/platform/metrics"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/platform/tx"
	"lifeclock/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
}

// PersonStore is the slice of the person store that account lifecycle needs.
type PersonStore interface {
	Create(ctx context.Context, p *personmodels.Person) error
	FindAccountPerson(ctx context.Context, userID id.UserID) (*personmodels.Person, error)
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, now time.Time, expiresIn time.Duration) (string, *jwttoken.Claims, error)
}

// RevocationList records signed-out token ids until the token would have expired anyway.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	users    UserStore
	persons  PersonStore
	tokens   TokenIssuer
	trl      RevocationList
	tx       tx.Runner
	auditor  AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	TokenTTL time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.TokenTTL = ttl
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(users UserStore, persons PersonStore, tokens TokenIssuer, trl RevocationList, opts ...Option) *Service {
	s := &Service{
		users:    users,
		persons:  persons,
		tokens:   tokens,
		trl:      trl,
		tx:       tx.NoopRunner{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("lifeclock/auth"),
		TokenTTL: jwttoken.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsTokenRevoked satisfies the auth middleware's revocation check.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.trl.IsRevoked(ctx, jti)
}

// revoke adds jti to the revocation list for the rest of the token's life.
// Tokens that are already expired need no entry.
func (s *Service) revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.trl.RevokeToken(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType audit.EventType, userID id.UserID, attrs map[string]string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{Type: eventType, UserID: userID.String(), Attributes: attrs})
}

// authFailure logs a rejected credential check without ever logging the password.
func (s *Service) authFailure(ctx context.Context, reason string, attrs ...any) {
	args := append([]any{
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
	}, attrs...)
	s.logger.WarnContext(ctx, "authentication failed", args...)
}

func translateUserErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "email is already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
