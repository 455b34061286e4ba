// Package metrics owns the prometheus collectors of the catalog service.
//
// A nil *Metrics is valid and records nothing, so services and tests can run
// without a registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// Outcome labels for writes and logins.
const (
	OutcomeOK      = "ok"
	OutcomeFailure = "failure"
)

type Metrics struct {
	// writes counts unit-of-work outcomes.
	// Labels:
	//   - op: the logical operation (e.g. "book.create")
	//   - outcome: "ok" or a fault kind (e.g. "unique_violation")
	writes *prometheus.CounterVec

	// rejections counts requests refused by the guard chain.
	// Label:
	//   - reason: fault kind (e.g. "unauthenticated", "insufficient_role")
	rejections *prometheus.CounterVec

	// logins counts token requests.
	// Label:
	//   - outcome: "ok" or "failure"
	logins *prometheus.CounterVec

	// rateLimited counts requests refused by a rate limiter.
	// Label:
	//   - profile: "strict", "moderate", "lenient" or "public"
	rateLimited *prometheus.CounterVec
}

// New registers the catalog collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Total number of catalog writes, by operation and outcome.",
		}, []string{"op", "outcome"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Total number of requests rejected by the guard chain.",
		}, []string{"reason"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of token requests, by outcome.",
		}, []string{"outcome"}),
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests refused by a rate limit profile.",
		}, []string{"profile"}),
	}
}

func (m *Metrics) Write(op, outcome string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Rejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailure
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RateLimited(profile string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(profile).Inc()
}
