package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "lifeclock/internal/auth/handler"
	authservice "lifeclock/internal/auth/service"
	"lifeclock/internal/auth/store/revocation"
	userstore "lifeclock/internal/auth/store/user"
	jwttoken "lifeclock/internal/jwt_token"
	lifespanhandler "lifeclock/internal/lifespan/handler"
	"lifeclock/internal/lifespan/seed"
	lifespanservice "lifeclock/internal/lifespan/service"
	lifespanstore "lifeclock/internal/lifespan/store"
	personhandler "lifeclock/internal/person/handler"
	personservice "lifeclock/internal/person/service"
	personstore "lifeclock/internal/person/store"
	"lifeclock/internal/platform/metrics"
	ratelimitmw "lifeclock/internal/ratelimit/middleware"
	ratelimit "lifeclock/internal/ratelimit/models"
	ratelimitservice "lifeclock/internal/ratelimit/service"
	"lifeclock/internal/ratelimit/store/bucket"
	authmw "lifeclock/pkg/platform/middleware/auth"
	"lifeclock/pkg/testutil"
)

func newTestRouter(t *testing.T, checks map[string]HealthCheck, opts ...func(*Config)) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	stats := lifespanstore.NewInMemory()
	_, err := seed.Apply(ctx, stats, seed.Default())
	require.NoError(t, err)
	lifespan := lifespanservice.New(stats, lifespanservice.WithLogger(logger))

	persons := personstore.NewInMemory()
	trl := revocation.NewInMemoryTRL()
	jwt := jwttoken.NewJWTService("router-test-key", "lifeclock", "lifeclock-api")
	auth := authservice.New(userstore.New(), persons, jwt, trl, authservice.WithLogger(logger))

	reg := prometheus.NewRegistry()
	cfg := Config{
		Logger:       logger,
		Latency:      metrics.NewWith(reg),
		Gatherer:     reg,
		HealthChecks: checks,
		RequireAuth:  authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwt), auth, logger),
		Auth:         authhandler.New(auth, logger),
		Persons:      personhandler.New(personservice.New(persons, lifespan, personservice.WithLogger(logger)), logger),
		Lifespan:     lifespanhandler.New(lifespan, logger),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewRouter(cfg)
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAccountLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)

	testutil.Given(t, "a freshly signed-up user", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "Taro", "email": "taro@example.com", "password": "correct horse",
			"birthDate": "1990-05-01", "sex": "male",
		}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/createAuthToken", map[string]string{
			"email": "taro@example.com", "password": "correct horse",
		}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		token := testutil.UnmarshalResponse[authhandler.TokenResponse](t, rr).Token
		require.NotEmpty(t, token)

		testutil.When(t, "listing persons with the token", func(t *testing.T) {
			rr := testutil.DoRequest(router, bearer(httptest.NewRequest(http.MethodGet, "/api/persons/findAll", nil), token))

			testutil.Then(t, "the account person is listed with a positive remaining time", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
				body := testutil.UnmarshalResponse[personhandler.FindAllResponse](t, rr)
				require.Len(t, body.FormattedPersons, 1)
				assert.True(t, body.FormattedPersons[0].IsAccountUser)
				assert.Positive(t, body.FormattedPersons[0].RemainTime)
			})
		})

		testutil.When(t, "reading the profile through the cookie", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/find", nil)
			req.AddCookie(&http.Cookie{Name: authmw.CookieName, Value: token})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "sex and birth date come from the account person", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
				body := testutil.UnmarshalResponse[authhandler.FindUserResponse](t, rr)
				assert.Equal(t, "male", body.User.Sex)
				assert.Equal(t, "1990-05-01", body.User.BirthDate)
			})
		})

		testutil.When(t, "signing out", func(t *testing.T) {
			rr := testutil.DoRequest(router, bearer(httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil), token))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			testutil.Then(t, "the token is rejected afterwards", func(t *testing.T) {
				rr := testutil.DoRequest(router, bearer(httptest.NewRequest(http.MethodGet, "/api/persons/findAll", nil), token))
				assert.Equal(t, http.StatusUnauthorized, rr.Code)
			})
		})
	})
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("lifespan is public", func(t *testing.T) {
		rr := testutil.Get(t, router, "/api/life/lifespan?sex=female&year=1990")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "remainTime")
	})

	t.Run("unknown sex is zero", func(t *testing.T) {
		rr := testutil.Get(t, router, "/api/life/lifespan?sex=other&year=1990")
		require.Equal(t, http.StatusOK, rr.Code)
		testutil.AssertJSONContains(t, rr, "remainTime", float64(0))
	})

	for _, path := range []string{"/api/users/find", "/api/persons/findAll", "/api/persons/checkCount"} {
		t.Run(path+" requires auth", func(t *testing.T) {
			rr := testutil.Get(t, router, path)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	t.Run("responses carry a request id", func(t *testing.T) {
		rr := testutil.Get(t, router, "/api/life/lifespan?sex=male&year=2000")
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
}

func TestOperationalEndpoints(t *testing.T) {
	t.Run("health reports each dependency", func(t *testing.T) {
		router := newTestRouter(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		rr := testutil.Get(t, router, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

		body := testutil.UnmarshalResponse[HealthResponse](t, rr)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, map[string]string{"postgres": "ok", "redis": "unavailable"}, body.Checks)
	})

	t.Run("health without dependencies", func(t *testing.T) {
		rr := testutil.Get(t, newTestRouter(t, nil), "/health")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("metrics exposes request latency", func(t *testing.T) {
		router := newTestRouter(t, nil)
		testutil.Get(t, router, "/api/life/lifespan?sex=male&year=2000")

		rr := testutil.Get(t, router, "/metrics")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), `route="/api/life/lifespan"`), rr.Body.String())
	})
}

func TestRateLimitedRoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimitservice.New(bucket.NewInMemoryBucketStore(),
		ratelimitservice.WithLimit(ratelimit.ClassAuth, ratelimit.Limit{Requests: 2, Window: time.Minute}),
		ratelimitservice.WithLimit(ratelimit.ClassRead, ratelimit.Limit{Requests: 1, Window: time.Minute}),
	)
	router := newTestRouter(t, nil, func(c *Config) {
		c.RateLimit = ratelimitmw.New(limiter, logger)
	})

	signin := func() int {
		return testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/createAuthToken", map[string]string{
			"email": "nobody@example.com", "password": "whatever1",
		})).Code
	}
	assert.Equal(t, http.StatusUnauthorized, signin())
	assert.Equal(t, http.StatusUnauthorized, signin())
	assert.Equal(t, http.StatusTooManyRequests, signin())

	assert.Equal(t, http.StatusOK, testutil.Get(t, router, "/api/life/lifespan?sex=male&year=2000").Code)
	rr := testutil.Get(t, router, "/api/life/lifespan?sex=male&year=2000")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, testutil.Get(t, router, "/health").Code, "operational endpoints are not limited")
}
