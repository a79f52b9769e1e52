package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"seguard-hq/seguard/pkg/config"
)

// DecisionMetrics tracks access-control decisions made through the
// mediation layer.
//
// Metrics:
//   - seguard_mac_decisions_total: decisions by security class and outcome
//   - seguard_mac_denials_total: denials by security class
//   - seguard_mac_label_transitions_total: trusted-procedure label switches
//   - seguard_mac_hook_duration_seconds: hook dispatch latency by hook
type DecisionMetrics struct {
	decisions   *prometheus.CounterVec
	denials     *prometheus.CounterVec
	transitions prometheus.Counter
	hookLatency *prometheus.HistogramVec
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total access-control decisions by security class and outcome",
			},
			[]string{"class", "decision"},
		),

		denials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "denials_total",
				Help:      "Total access denials by security class",
			},
			[]string{"class"},
		),

		transitions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "label_transitions_total",
				Help:      "Total trusted-procedure label transitions",
			},
		),

		hookLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "hook_duration_seconds",
				Help:      "Hook dispatch latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"hook"},
		),
	}

	registry.MustRegister(
		dm.decisions,
		dm.denials,
		dm.transitions,
		dm.hookLatency,
	)

	return dm
}

// ObserveDecision records one access-control decision.
//
// Parameters:
//   - class: security class (e.g. "db_table", "process")
//   - allowed: decision outcome
func (dm *DecisionMetrics) ObserveDecision(class string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	dm.decisions.WithLabelValues(class, decision).Inc()
	if !allowed {
		dm.denials.WithLabelValues(class).Inc()
	}
}

// ObserveTransition records one trusted-procedure label transition.
func (dm *DecisionMetrics) ObserveTransition() {
	dm.transitions.Inc()
}

// ObserveHook records the dispatch latency of one hook invocation.
func (dm *DecisionMetrics) ObserveHook(hook string, duration time.Duration) {
	dm.hookLatency.WithLabelValues(hook).Observe(duration.Seconds())
}
