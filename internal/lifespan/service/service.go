package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lifeclock/internal/lifespan/metrics"
	"lifeclock/internal/lifespan/models"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/lifetime"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/requestcontext"
)

// StatisticStore looks up average lifespan statistics.
type StatisticStore interface {
	FindLatest(ctx context.Context, sex models.Sex, notAfterYear int) (*models.Statistic, error)
	FindByYear(ctx context.Context, sex models.Sex, year int) (*models.Statistic, error)
}

// Service computes remaining lifespan in seconds.
type Service struct {
	stats    StatisticStore
	strategy models.LookupStrategy
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

// WithStrategy selects the statistic lookup. The default is StrategyLatest.
func WithStrategy(strategy models.LookupStrategy) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(stats StatisticStore, opts ...Option) *Service {
	s := &Service{
		stats:    stats,
		strategy: models.StrategyLatest,
		logger:   slog.Default(),
		tracer:   otel.Tracer("lifeclock/lifespan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy reports the configured lookup strategy.
func (s *Service) Strategy() models.LookupStrategy {
	return s.strategy
}

// RemainTime returns the average lifespan minus the age of someone born at
// birth, in seconds, evaluated at requestcontext.Now(ctx). The result is
// negative once the average is exceeded, and 0 when no statistic applies to
// sex. sex is not validated here; an unknown code simply finds no statistic.
func (s *Service) RemainTime(ctx context.Context, sex string, birth time.Time) (int64, error) {
	start := time.Now()
	defer s.metrics.ObserveCalculation(start)

	ctx, span := s.tracer.Start(ctx, "lifespan.RemainTime", trace.WithAttributes(
		attribute.String("lifespan.sex", sex),
		attribute.String("lifespan.strategy", string(s.strategy)),
	))
	defer span.End()

	now := requestcontext.Now(ctx)
	stat, err := s.lookup(ctx, models.Sex(sex), now.UTC().Year())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncStatisticMissing(sex, string(s.strategy))
			s.logger.WarnContext(ctx, "no lifespan statistic found",
				"sex", sex,
				"strategy", s.strategy,
				"request_id", requestcontext.RequestID(ctx),
			)
			span.SetAttributes(attribute.Bool("lifespan.statistic_found", false))
			return 0, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistic lookup failed")
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up lifespan statistic")
	}

	remain := RemainingSeconds(stat.Age, birth, now)
	span.SetAttributes(
		attribute.Bool("lifespan.statistic_found", true),
		attribute.Int("lifespan.statistic_year", stat.Year),
	)
	return remain, nil
}

func (s *Service) lookup(ctx context.Context, sex models.Sex, currentYear int) (*models.Statistic, error) {
	switch s.strategy {
	case models.StrategyPreviousYear:
		return s.stats.FindByYear(ctx, sex, currentYear-1)
	default:
		return s.stats.FindLatest(ctx, sex, currentYear)
	}
}

// RemainingSeconds is averageLifespanSeconds - ageSeconds, where the age is
// the difference of both instants truncated to whole seconds.
func RemainingSeconds(averageAge float64, birth, now time.Time) int64 {
	ageSeconds := lifetime.DateToSeconds(now) - lifetime.DateToSeconds(birth)
	return lifetime.AgeToSeconds(averageAge) - ageSeconds
}
