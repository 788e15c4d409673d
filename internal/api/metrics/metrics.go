// Package metrics defines and registers all custom Prometheus metrics for the
// registry service. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry"

// ── Synchronization metrics ───────────────────────────────────────────────────

// SyncAttemptsTotal counts fetches against the remote document store.
// Label:
//   - result: "success" or "failure"
var SyncAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_attempts_total",
		Help:      "Total number of remote document fetch attempts, by result.",
	},
	[]string{"result"},
)

// VersionConflictsTotal counts writes rejected because the held version token
// was stale.
var VersionConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "version_conflicts_total",
		Help:      "Total number of registry writes rejected with a stale version token.",
	},
)

// CommitsTotal counts successful registry commits.
// Label:
//   - collection: the collection that changed ("orders", "products", …)
var CommitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commits_total",
		Help:      "Total number of successful registry commits, by collection.",
	},
	[]string{"collection"},
)

// CommitDuration measures a single remote write end to end.
// Label:
//   - collection: the collection that changed
var CommitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "commit_duration_seconds",
		Help:      "Duration of remote document writes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection"},
)

// DegradedMode is 1 while the registry serves mirror or fallback data.
var DegradedMode = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "degraded_mode",
		Help:      "1 while the registry runs on non-durable fallback data, else 0.",
	},
)

// ── Mirror metrics ────────────────────────────────────────────────────────────

// MirrorQueueDepth tracks pending mirror writes per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MirrorQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mirror_queue_depth",
		Help:      "Current number of mirror writes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MirrorWritesTotal counts cache mirror writes.
// Label:
//   - result: "success" or "failure"
var MirrorWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_writes_total",
		Help:      "Total number of cache mirror writes, by result.",
	},
	[]string{"result"},
)
