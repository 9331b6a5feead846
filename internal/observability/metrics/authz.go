package metrics

// Package metrics exposes Prometheus collectors for the dashboard.
// All recorders are nil-safe so callers can run without a registry.

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

// AuthzMetrics records authorization gate outcomes.
type AuthzMetrics struct {
	checks    *prometheus.CounterVec
	lookup    prometheus.Histogram
	decisions *prometheus.CounterVec
	attempts  prometheus.Histogram
}

// NewAuthzMetrics creates the gate collectors and registers them with reg when non-nil.
func NewAuthzMetrics(reg prometheus.Registerer) *AuthzMetrics {
	m := &AuthzMetrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "checks_total",
			Help:      "Single authorization checks by decision kind.",
		}, []string{"kind"}),
		lookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "member_lookup_duration_seconds",
			Help:      "Latency of guild member lookups.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "decisions_total",
			Help:      "Final sign-in decisions by kind.",
		}, []string{"kind"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "authz",
			Name:      "attempts",
			Help:      "Checks made per sign-in.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Collectors()...)
	}
	return m
}

// Collectors returns every collector owned by m.
func (m *AuthzMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.checks, m.lookup, m.decisions, m.attempts}
}

// ObserveCheck records one authorization check. A zero lookup duration means no lookup was made.
func (m *AuthzMetrics) ObserveCheck(kind string, lookup time.Duration) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(kind).Inc()
	if lookup > 0 {
		m.lookup.Observe(lookup.Seconds())
	}
}

// ObserveDecision records the final decision of a sign-in and how many checks it took.
func (m *AuthzMetrics) ObserveDecision(kind string, attempts int) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(kind).Inc()
	m.attempts.Observe(float64(attempts))
}
