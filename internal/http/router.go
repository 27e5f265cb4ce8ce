// Package httpapi assembles the HTTP surface: the middleware chain, the
// per-module routers and the operational endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "lifeclock/internal/auth/handler"
	lifespanhandler "lifeclock/internal/lifespan/handler"
	personhandler "lifeclock/internal/person/handler"
	"lifeclock/internal/platform/middleware"
	ratelimitmw "lifeclock/internal/ratelimit/middleware"
	ratelimit "lifeclock/internal/ratelimit/models"
	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/platform/middleware/metadata"
	"lifeclock/pkg/platform/middleware/requesttime"
)

// DefaultRequestTimeout bounds every request when Config.RequestTimeout is unset.
const DefaultRequestTimeout = 30 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	Latency        middleware.LatencyObserver
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
	// HealthChecks are run by /health, keyed by dependency name.
	HealthChecks map[string]HealthCheck
	// RateLimit guards the public routes; nil disables it.
	RateLimit *ratelimitmw.Middleware

	RequireAuth func(http.Handler) http.Handler
	Auth        *authhandler.Handler
	Persons     *personhandler.Handler
	Lifespan    *lifespanhandler.Handler
}

// NewRouter wires all public endpoints under /api plus /health and /metrics.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	if cfg.Latency != nil {
		r.Use(middleware.Latency(cfg.Latency))
	}

	r.Get("/health", healthHandler(cfg.HealthChecks))
	r.Handle("/metrics", metricsHandler(cfg.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Route("/life", func(r chi.Router) {
			r.Use(cfg.RateLimit.RateLimit(ratelimit.ClassRead))
			cfg.Lifespan.Register(r)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Use(cfg.RateLimit.RateLimit(ratelimit.ClassAuth))
			cfg.Auth.Register(r)
			r.With(cfg.RequireAuth).Post("/signout", cfg.Auth.HandleSignout)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			cfg.Auth.RegisterUsers(r)
		})
		r.Route("/persons", func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			cfg.Persons.Register(r)
		})
	})
	return r
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
