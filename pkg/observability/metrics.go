package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records resolution and action lifecycle counters. A nil
// *Metrics is a valid no-op receiver, so callers never guard their
// instrumentation sites.
type Metrics struct {
	resolvePasses  prometheus.Histogram
	nodeResolved   *prometheus.CounterVec
	reresolutions  prometheus.Counter
	actionDispatch *prometheus.CounterVec
	exprFailures   prometheus.Counter
}

// New creates Metrics registered on reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolvePasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scals",
			Name:      "resolve_pass_duration_seconds",
			Help:      "Duration of full document resolution passes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		nodeResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scals",
			Name:      "nodes_resolved_total",
			Help:      "Nodes resolved, by document kind.",
		}, []string{"kind"}),
		reresolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scals",
			Name:      "subtree_reresolutions_total",
			Help:      "Incremental subtree re-resolutions triggered by state changes.",
		}),
		actionDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scals",
			Name:      "action_dispatches_total",
			Help:      "Action executions, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		exprFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scals",
			Name:      "expression_misses_total",
			Help:      "Expressions that degraded to an absent value.",
		}),
	}
	reg.MustRegister(m.resolvePasses, m.nodeResolved, m.reresolutions, m.actionDispatch, m.exprFailures)
	return m
}

// ObserveResolvePass records one full resolution pass.
func (m *Metrics) ObserveResolvePass(d time.Duration) {
	if m == nil {
		return
	}
	m.resolvePasses.Observe(d.Seconds())
}

// NodeResolved counts one resolved node of the given kind.
func (m *Metrics) NodeResolved(kind string) {
	if m == nil {
		return
	}
	m.nodeResolved.WithLabelValues(kind).Inc()
}

// SubtreeReresolved counts n incremental re-resolutions.
func (m *Metrics) SubtreeReresolved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.reresolutions.Add(float64(n))
}

// ActionDispatched counts one action execution.
func (m *Metrics) ActionDispatched(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.actionDispatch.WithLabelValues(kind, outcome).Inc()
}

// ExpressionMiss counts one expression that degraded to absent.
func (m *Metrics) ExpressionMiss() {
	if m == nil {
		return
	}
	m.exprFailures.Inc()
}
