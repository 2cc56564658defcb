// Package metrics defines and registers the custom Prometheus metrics of the
// access-control service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "access"

// ── Resolution metrics ────────────────────────────────────────────────────────

// PermissionChecksTotal counts permission decisions.
// Labels:
//   - module: the module checked (e.g. "finance")
//   - action: view, create, edit or delete
//   - result: "allow" or "deny"
var PermissionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_checks_total",
		Help:      "Total number of permission checks, by module, action and result.",
	},
	[]string{"module", "action", "result"},
)

// PermissionCheckDuration measures a single check, including cache and store lookups.
var PermissionCheckDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "permission_check_duration_seconds",
		Help:      "Duration of a permission check from request to decision.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts effective-permission cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of effective-permission cache lookups, by result.",
	},
	[]string{"result"},
)

// CacheWritesTotal counts attempts to store a resolved matrix.
// Label:
//   - result: "stored", "stale" (an edit invalidated the user meanwhile) or "error"
var CacheWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_writes_total",
		Help:      "Total number of effective-permission cache writes, by result.",
	},
	[]string{"result"},
)

// WarmupQueueDepth tracks pending warm-up jobs per dispatcher worker.
var WarmupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "warmup_queue_depth",
		Help:      "Current number of cache warm-up jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Edit metrics ──────────────────────────────────────────────────────────────

// PermissionUpdatesTotal counts permission edits.
// Labels:
//   - target: "role" or "user"
//   - result: "ok", "not_found" or "error"
var PermissionUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_updates_total",
		Help:      "Total number of role and user permission updates, by outcome.",
	},
	[]string{"target", "result"},
)

// RolesCreatedTotal counts roles added to the catalog.
var RolesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_created_total",
		Help:      "Total number of roles created.",
	},
)
