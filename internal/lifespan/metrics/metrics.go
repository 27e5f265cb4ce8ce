package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers remaining-time calculations and the statistics cache.
type Metrics struct {
	CalculationDuration prometheus.Histogram
	StatisticMissing    *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
}

// New registers the lifespan metrics on the default registry. Call once per process.
func New() *Metrics {
	return &Metrics{
		CalculationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeclock_remain_time_duration_seconds",
			Help:    "Duration of remaining-time calculations including the statistic lookup",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		StatisticMissing: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeclock_statistic_missing_total",
			Help: "Calculations that returned 0 because no statistic matched",
		}, []string{"sex", "strategy"}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeclock_statistic_cache_lookups_total",
			Help: "Statistics cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveCalculation(start time.Time) {
	if m == nil {
		return
	}
	m.CalculationDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncStatisticMissing(sex, strategy string) {
	if m == nil {
		return
	}
	m.StatisticMissing.WithLabelValues(sex, strategy).Inc()
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) RecordCacheError() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("error").Inc()
}
