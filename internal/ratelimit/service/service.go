package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"lifeclock/internal/audit"
	"lifeclock/internal/platform/metrics"
	"lifeclock/internal/ratelimit/models"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/requestcontext"
)

// BucketStore counts requests per key over a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// DefaultLimits are applied per client IP.
func DefaultLimits() map[models.EndpointClass]models.Limit {
	return map[models.EndpointClass]models.Limit{
		models.ClassAuth: {Requests: 10, Window: time.Minute},
		models.ClassRead: {Requests: 100, Window: time.Minute},
	}
}

type Service struct {
	buckets BucketStore
	limits  map[models.EndpointClass]models.Limit
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithLimit overrides the budget of one class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(s *Service) {
		s.limits[class] = limit
	}
}

func New(buckets BucketStore, opts ...Option) *Service {
	s := &Service{
		buckets: buckets,
		limits:  DefaultLimits(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIP consumes one request from the IP's budget for class. A class
// without a positive budget is unlimited.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	if !class.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown endpoint class: "+string(class))
	}
	limit := s.limits[class]
	now := requestcontext.Now(ctx)
	if limit.Requests <= 0 || limit.Window <= 0 {
		return &models.Result{Allowed: true, ResetAt: now}, nil
	}

	result, err := s.buckets.Allow(ctx, models.IPKey(class, ip), limit.Requests, limit.Window, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		s.metrics.RecordRateLimited(string(class))
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"endpoint_class", class,
			"client_ip", ip,
			"limit", limit.Requests,
			"window_seconds", int(limit.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.auditor != nil {
			s.auditor.Emit(ctx, audit.Event{
				Type: audit.EventRateLimited,
				Attributes: map[string]string{
					"endpoint_class": string(class),
					"client_ip":      ip,
					"retry_after":    strconv.Itoa(result.RetryAfter),
				},
			})
		}
	}
	return result, nil
}
