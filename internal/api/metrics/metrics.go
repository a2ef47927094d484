// Package metrics defines and registers all custom Prometheus metrics for the
// orders API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orders_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "invalid", "duplicate", "unauthorized" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// TokenRejectionsTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "missing" or "invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the bearer token check.",
	},
	[]string{"reason"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrderMutationsTotal counts successful order writes.
// Label:
//   - operation: "create", "update" or "delete"
var OrderMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_mutations_total",
		Help:      "Total number of orders created, updated or deleted.",
	},
	[]string{"operation"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditDroppedTotal counts request records discarded because the dispatcher
// queue was full or already closed.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_records_dropped_total",
		Help:      "Total number of request records dropped before reaching the audit store.",
	},
)

// AuditQueueDepth tracks the current number of records waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of request records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long a single record takes to persist.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of request record persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Migration metrics ─────────────────────────────────────────────────────────

// MigrationsAppliedTotal counts schema steps applied by this process.
var MigrationsAppliedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "migrations_applied_total",
		Help:      "Total number of schema migration steps applied.",
	},
)
