// Package metrics defines the Prometheus metrics of the clock service. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics register with the default registry on package init, so the
// echoprometheus handler mounted at /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ponto"

// ── Scan metrics ──────────────────────────────────────────────────────────────

// ScansProcessedTotal counts scans that registered an event.
// Label:
//   - event_type: "ENTRY" or "EXIT"
var ScansProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_processed_total",
		Help:      "Total number of scans that registered a clock event.",
	},
	[]string{"event_type"},
)

// ScanErrorsTotal counts scans that failed.
// Label:
//   - reason: "not_identified", "duplicate", "validation", "site_not_found" or "internal"
var ScanErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_errors_total",
		Help:      "Total number of scans that did not register an event.",
	},
	[]string{"reason"},
)

// ScanDedupTotal counts scan guard decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (first time seen)
var ScanDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_dedup_total",
		Help:      "Total number of scan guard checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ScanQueueDepth tracks offline scans waiting in each dispatcher shard.
var ScanQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scan_queue_depth",
		Help:      "Current number of scans pending in each dispatcher shard.",
	},
	[]string{"worker_id"},
)

// ScanProcessingDuration measures a scan from dequeue (or request) to persistence.
// Label:
//   - event_type: the registered type, or "error"
var ScanProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_processing_duration_seconds",
		Help:      "Duration of scan processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event_type"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// JustificationsSubmittedTotal counts PENDING events created by workers.
var JustificationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "justifications_submitted_total",
		Help:      "Total number of justifications submitted, by reason.",
	},
	[]string{"reason"},
)

// ApprovalsTotal counts manager decisions.
// Label:
//   - decision: "approved" or "rejected"
var ApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approvals_total",
		Help:      "Total number of justification decisions.",
	},
	[]string{"decision"},
)

// CascadeFailuresTotal counts cascades left half-applied.
// Label:
//   - op: "register event", "delete event" or "approve"
var CascadeFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_failures_total",
		Help:      "Total number of two-step cascades whose second write failed.",
	},
	[]string{"op"},
)


// SiteCacheRequestsTotal counts site directory cache lookups.
// Label:
//   - result: "hit" or "miss"
var SiteCacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "site_cache_requests_total",
		Help:      "Total number of site cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
