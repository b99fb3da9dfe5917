// Package metrics exposes Prometheus metrics for rule evaluation, the
// audit chain and report generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"veridex-hq/callisto/pkg/config"
	"veridex-hq/callisto/pkg/rules"
)

// Collector owns all Prometheus metrics and their registry. It
// satisfies the engine's Observer interface so per-rule outcomes flow
// in without the engine importing this package.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Per-rule evaluation outcomes
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec

	// Audit chain activity
	auditAppendsTotal       *prometheus.CounterVec
	chainVerificationsTotal *prometheus.CounterVec

	// Report generation
	reportsTotal *prometheus.CounterVec
}

// NewCollector creates a metrics collector registered on the given
// registry. A nil registry gets a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "veridex"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "callisto"
	}
	if len(cfg.EvaluationDurationBuckets) == 0 {
		cfg.EvaluationDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of rule evaluations by rule and verdict",
			},
			[]string{"rule_id", "verdict"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single rule evaluation in seconds",
				Buckets:   cfg.EvaluationDurationBuckets,
			},
			[]string{"rule_id"},
		),

		auditAppendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_appends_total",
				Help:      "Total number of audit chain appends by stage and status",
			},
			[]string{"stage", "status"},
		),

		chainVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chain_verifications_total",
				Help:      "Total number of audit chain verification passes by result",
			},
			[]string{"result"},
		),

		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reports_generated_total",
				Help:      "Total number of compliance reports by overall verdict",
			},
			[]string{"verdict"},
		),
	}

	registry.MustRegister(
		c.evaluationsTotal,
		c.evaluationDuration,
		c.auditAppendsTotal,
		c.chainVerificationsTotal,
		c.reportsTotal,
	)

	return c
}

// ObserveEvaluation records one rule evaluation outcome.
func (c *Collector) ObserveEvaluation(ruleID string, verdict rules.Verdict, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.evaluationsTotal.WithLabelValues(ruleID, string(verdict)).Inc()
	c.evaluationDuration.WithLabelValues(ruleID).Observe(duration.Seconds())
}

// RecordAuditAppend records an audit chain append attempt.
// status is "ok" or "error".
func (c *Collector) RecordAuditAppend(stage, status string) {
	if !c.config.Enabled {
		return
	}

	c.auditAppendsTotal.WithLabelValues(stage, status).Inc()
}

// RecordChainVerification records a verification pass.
// result is "valid" or "invalid".
func (c *Collector) RecordChainVerification(valid bool) {
	if !c.config.Enabled {
		return
	}

	result := "valid"
	if !valid {
		result = "invalid"
	}
	c.chainVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordReport records a generated compliance report.
func (c *Collector) RecordReport(verdict string) {
	if !c.config.Enabled {
		return
	}

	c.reportsTotal.WithLabelValues(verdict).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
