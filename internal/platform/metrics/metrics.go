package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-wide Prometheus metrics.
type Metrics struct {
	UsersCreated    prometheus.Counter
	UsersDeleted    prometheus.Counter
	SignIns         *prometheus.CounterVec
	PersonsCreated  prometheus.Counter
	PersonsImported prometheus.Counter
	RequestDuration *prometheus.HistogramVec
	RateLimited     *prometheus.CounterVec
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on reg; tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeclock_users_created_total",
			Help: "Total number of users created",
		}),
		UsersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeclock_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		SignIns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeclock_sign_ins_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
		PersonsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeclock_persons_created_total",
			Help: "Total number of persons created, including imports",
		}),
		PersonsImported: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeclock_persons_imported_total",
			Help: "Total number of persons created from vCard imports",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifeclock_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeclock_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		}, []string{"class"}),
	}
}

func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementUsersDeleted() {
	if m == nil {
		return
	}
	m.UsersDeleted.Inc()
}

func (m *Metrics) RecordSignIn(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.SignIns.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementPersonsCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PersonsCreated.Add(float64(n))
}

func (m *Metrics) IncrementPersonsImported(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PersonsImported.Add(float64(n))
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) RecordRateLimited(class string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(class).Inc()
}
