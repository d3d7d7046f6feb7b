// Package metrics exposes Prometheus counters and gauges for the relative-index
// container family and the flow cache engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FlowCacheInserts counts successful and failed insert attempts by outcome.
var FlowCacheInserts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "flowcache_inserts_total",
		Help: "Flow cache insert attempts by outcome",
	},
	[]string{"outcome"}, // "hit", "inserted", "full", "kickout_exhausted"
)

// FlowCacheKickouts counts cuckoo relocations performed during insert.
var FlowCacheKickouts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "flowcache_kickouts_total",
		Help: "Cuckoo kick-out relocations performed during insert",
	},
	[]string{"cache"},
)

// FlowCacheDemotions counts pipeline contexts demoted from CMP_KEY back to
// REFETCH_NODE because a sibling insert or kick-out changed their observed
// bucket snapshot.
var FlowCacheDemotions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "flowcache_context_demotions_total",
		Help: "Pipeline contexts demoted to REFETCH_NODE by a concurrent insert or kick-out",
	},
	[]string{"cache"},
)

// FlowCacheNodeCount reports the live node count (nb_used) of a cache instance.
var FlowCacheNodeCount = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "flowcache_node_count",
		Help: "Number of live nodes currently allocated in a flow cache",
	},
	[]string{"cache"},
)

// FlowCacheBulkLatency observes the wall-clock duration of FindBulk calls.
var FlowCacheBulkLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "flowcache_find_bulk_latency_seconds",
		Help:    "FindBulk call latency",
		Buckets: prometheus.ExponentialBuckets(0.0000001, 10, 8),
	},
	[]string{"cache"},
)

// ContainerSize reports the current element count of a container instance,
// keyed by flavor ("slist", "list", "stailq", "tailq", "circleq", "rbtree").
// No container package in this module updates it.
var ContainerSize = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "ridx_container_size",
		Help: "Live element count of a relative-index container instance",
	},
	[]string{"flavor", "name"},
)
