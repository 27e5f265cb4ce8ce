package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"lifeclock/internal/audit"
	authhandler "lifeclock/internal/auth/handler"
	authservice "lifeclock/internal/auth/service"
	httpapi "lifeclock/internal/http"
	jwttoken "lifeclock/internal/jwt_token"
	lifespanhandler "lifeclock/internal/lifespan/handler"
	lifespanmetrics "lifeclock/internal/lifespan/metrics"
	lifespanmodels "lifeclock/internal/lifespan/models"
	lifespanservice "lifeclock/internal/lifespan/service"
	personhandler "lifeclock/internal/person/handler"
	personservice "lifeclock/internal/person/service"
	"lifeclock/internal/platform/config"
	"lifeclock/internal/platform/httpserver"
	"lifeclock/internal/platform/logger"
	"lifeclock/internal/platform/metrics"
	ratelimitmw "lifeclock/internal/ratelimit/middleware"
	ratelimit "lifeclock/internal/ratelimit/models"
	ratelimitservice "lifeclock/internal/ratelimit/service"
	"lifeclock/internal/ratelimit/store/bucket"
	authmw "lifeclock/pkg/platform/middleware/auth"
)

const (
	auditBufferSize = 1024
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.UsesDevSigningKey() {
		log.Warn("JWT_SIGNING_KEY is not set; using the development key")
	}

	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	strategy, err := lifespanmodels.ParseLookupStrategy(cfg.Lifespan.LookupStrategy)
	if err != nil {
		return err
	}

	appMetrics := metrics.New()
	lifespanMetrics := lifespanmetrics.New()

	st, err := buildStores(ctx, cfg, infra, lifespanMetrics, log)
	if err != nil {
		return err
	}

	publisher := audit.NewPublisher(auditBufferSize, log)
	worker := audit.NewWorker(infra.auditSink(log), publisher.Events(), log)

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	lifespan := lifespanservice.New(st.statistics,
		lifespanservice.WithLogger(log),
		lifespanservice.WithMetrics(lifespanMetrics),
		lifespanservice.WithStrategy(strategy),
	)
	persons := personservice.New(st.persons, lifespan,
		personservice.WithLogger(log),
		personservice.WithMetrics(appMetrics),
		personservice.WithTxRunner(st.tx),
		personservice.WithAuditPublisher(publisher),
	)
	auth := authservice.New(st.users, st.persons, jwt, st.revocations,
		authservice.WithLogger(log),
		authservice.WithMetrics(appMetrics),
		authservice.WithTxRunner(st.tx),
		authservice.WithAuditPublisher(publisher),
		authservice.WithTokenTTL(cfg.Auth.TokenTTL),
	)

	limits := []ratelimitservice.Option{
		ratelimitservice.WithLimit(ratelimit.ClassAuth, ratelimit.Limit{Requests: cfg.RateLimit.AuthPerMinute, Window: time.Minute}),
		ratelimitservice.WithLimit(ratelimit.ClassRead, ratelimit.Limit{Requests: cfg.RateLimit.ReadPerMinute, Window: time.Minute}),
	}
	limiter := ratelimitservice.New(st.buckets, append(limits,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(appMetrics),
		ratelimitservice.WithAuditPublisher(publisher),
	)...)
	rateLimitOpts := []ratelimitmw.Option{ratelimitmw.WithDisabled(cfg.RateLimit.Disabled)}
	if infra.redis != nil {
		fallback := ratelimitservice.New(bucket.NewInMemoryBucketStore(), append(limits, ratelimitservice.WithLogger(log))...)
		rateLimitOpts = append(rateLimitOpts, ratelimitmw.WithFallback(fallback))
	}

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		Latency:        appMetrics,
		HealthChecks:   infra.healthChecks(),
		RateLimit:      ratelimitmw.New(limiter, log, rateLimitOpts...),
		RequireAuth:    authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwt), auth, log),
		Auth:           authhandler.New(auth, log, authhandler.WithSecureCookie(cfg.Auth.SecureCookie)),
		Persons:        personhandler.New(persons, log),
		Lifespan:       lifespanhandler.New(lifespan, log),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	// The audit worker outlives the server so events from in-flight requests drain.
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- worker.Run(workerCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lifeclock", "addr", cfg.Server.Addr, "lookup_strategy", string(strategy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	err = g.Wait()

	publisher.Close()
	select {
	case <-workerDone:
	case <-time.After(shutdownTimeout):
		log.Warn("audit drain timed out; abandoning pending events", "timeout", shutdownTimeout.String())
		cancelWorker()
		<-workerDone
	}
	if dropped := publisher.Dropped(); dropped > 0 {
		log.Warn("audit events dropped", "count", dropped)
	}
	log.Info("server stopped")
	return err
}
