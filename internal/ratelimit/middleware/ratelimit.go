package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"lifeclock/internal/ratelimit/models"
	"lifeclock/pkg/platform/circuit"
	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/requestcontext"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error)
}

type Middleware struct {
	limiter  RateLimiter
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback answers checks from fallback while the primary limiter's
// circuit is open. Responses served this way carry X-RateLimit-Status: degraded.
func WithFallback(fallback RateLimiter) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

// WithBreaker replaces the default breaker guarding the primary limiter.
func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger, breaker: circuit.New("ratelimit")}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP. A limiter error lets the request
// through unless the fallback is in use.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil || m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.check(ctx, w, ip, class)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"client_ip", ip,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, models.RateLimitExceededResponse{
					Error:      "rate_limit_exceeded",
					Message:    "too many requests, try again later",
					RetryAfter: result.RetryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) check(ctx context.Context, w http.ResponseWriter, ip string, class models.EndpointClass) (*models.Result, error) {
	result, err := m.limiter.CheckIP(ctx, ip, class)
	if err == nil {
		if _, change := m.breaker.RecordSuccess(); change.Closed {
			m.logger.InfoContext(ctx, "rate limit store recovered")
		}
		return result, nil
	}

	useFallback, change := m.breaker.RecordFailure()
	if change.Opened {
		m.logger.WarnContext(ctx, "rate limit store failing, circuit opened", "error", err)
	}
	if !useFallback || m.fallback == nil {
		return nil, err
	}
	w.Header().Set("X-RateLimit-Status", "degraded")
	return m.fallback.CheckIP(ctx, ip, class)
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	if result.Limit == 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
