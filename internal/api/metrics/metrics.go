// Package metrics defines all custom Prometheus metrics for the workforce API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by the ops server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workforce"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected bearer tokens.
// Label:
//   - reason: "missing_header", "malformed_token", "bad_signature", "expired",
//     "unknown_or_inactive_subject" or "lookup_error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by token validation, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PolicyDenialsTotal counts requests refused by the role policy.
// Label:
//   - operation: the protected operation (e.g. "write", "manage-identities")
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the role policy, by operation.",
	},
	[]string{"operation"},
)

// ── Payroll metrics ───────────────────────────────────────────────────────────

// PayrollComputationsTotal counts salary breakdown requests.
// Label:
//   - result: "ok" or "rejected"
var PayrollComputationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payroll_computations_total",
		Help:      "Total number of salary breakdowns requested, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events accepted by the dispatcher.
// Label:
//   - action: the audit action (e.g. "login_success")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events queued for persistence, by action.",
	},
	[]string{"action"},
)

// AuditDroppedTotal counts audit events discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped on a full queue, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
// Label:
//   - result: "ok" or "error"
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
