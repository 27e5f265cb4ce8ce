package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeclock/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "req-42", seen)
	})

	t.Run("oversized replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Len(t, seen, 36)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/life/lifespan", nil))

	out := buf.String()
	assert.Contains(t, out, `"path":"/api/life/lifespan"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_error")
}

func TestTimeout(t *testing.T) {
	t.Run("slow handler gets 504", func(t *testing.T) {
		h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	})

	t.Run("fast handler untouched", func(t *testing.T) {
		h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline := r.Context().Deadline()
			assert.True(t, hasDeadline)
			w.WriteHeader(http.StatusCreated)
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"empty post", http.MethodPost, ``, "", http.StatusOK},
		{"get ignored", http.MethodGet, ``, "text/plain", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

type recordedObservation struct {
	method, route, status string
}

type observerFunc func(method, route, status string, seconds float64)

func (f observerFunc) ObserveRequest(method, route, status string, seconds float64) {
	f(method, route, status, seconds)
}

func TestLatencyUsesRoutePattern(t *testing.T) {
	var got []recordedObservation
	r := chi.NewRouter()
	r.Use(Latency(observerFunc(func(method, route, status string, _ float64) {
		got = append(got, recordedObservation{method, route, status})
	})))
	r.Get("/api/persons/find/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/persons/find/123", nil))

	require.Len(t, got, 1)
	assert.Equal(t, recordedObservation{"GET", "/api/persons/find/{id}", "200"}, got[0])
}
