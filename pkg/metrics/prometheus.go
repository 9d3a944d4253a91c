// Package metrics provides Prometheus metrics for the paceboard sync pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Sync pipeline
	syncAttempts  prometheus.Counter
	syncSuccesses prometheus.Counter
	syncFailures  *prometheus.CounterVec
	syncDuration  prometheus.Histogram

	// Remote fetch
	pagesFetched      prometheus.Counter
	activitiesFetched prometheus.Counter
	tokenRefreshes    prometheus.Counter
	tokenCacheHits    prometheus.Counter

	// Processing
	activitiesProcessed prometheus.Counter
	duplicatesDropped   prometheus.Counter

	// Snapshot store
	snapshotRows         prometheus.Gauge
	snapshotSaveDuration prometheus.Histogram
	snapshotLoadDuration prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	backfilledColumns    prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager builds a Manager and registers all instruments.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "paceboard",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.syncAttempts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_attempts_total",
		Help: "Number of sync cycles started.",
	})
	m.syncSuccesses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_successes_total",
		Help: "Number of sync cycles that replaced the snapshot.",
	})
	m.syncFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sync_failures_total",
		Help: "Number of failed sync cycles by stage.",
	}, []string{"stage"})
	m.syncDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "sync_duration_seconds",
		Help:    "Wall time of a full fetch+process+save cycle.",
		Buckets: m.histogramBuckets,
	})

	m.pagesFetched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_pages_total",
		Help: "Number of activity pages retrieved from the remote API.",
	})
	m.activitiesFetched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_activities_total",
		Help: "Number of raw activity records retrieved.",
	})
	m.tokenRefreshes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "token_refreshes_total",
		Help: "Number of access-token exchanges performed.",
	})
	m.tokenCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "token_cache_hits_total",
		Help: "Number of token requests served from the memoized token.",
	})

	m.activitiesProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "activities_processed_total",
		Help: "Number of activity records normalized with derived fields.",
	})
	m.duplicatesDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "duplicates_dropped_total",
		Help: "Number of records dropped as duplicate activity ids.",
	})

	m.snapshotRows = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_rows",
		Help: "Number of rows in the current persisted snapshot.",
	})
	m.snapshotSaveDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "snapshot_save_duration_seconds",
		Help:    "Time to write and rename the snapshot file.",
		Buckets: m.histogramBuckets,
	})
	m.snapshotLoadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "snapshot_load_duration_seconds",
		Help:    "Time to read and backfill the snapshot file.",
		Buckets: m.histogramBuckets,
	})
	m.snapshotLastUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_last_write_unix",
		Help: "Unix time of the last successful snapshot write.",
	})
	m.backfilledColumns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_backfilled_columns_total",
		Help: "Number of derived columns recomputed at load time.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint and method.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines.",
	})
}

// Package-level helpers operating on the global manager.

// RecordSyncAttempt counts a sync cycle start.
func RecordSyncAttempt() {
	if globalManager.enabled {
		globalManager.syncAttempts.Inc()
	}
}

// RecordSyncSuccess counts a completed sync cycle.
func RecordSyncSuccess() {
	if globalManager.enabled {
		globalManager.syncSuccesses.Inc()
	}
}

// RecordSyncFailure counts a failed sync cycle for a pipeline stage
// (token, fetch, process, save, state).
func RecordSyncFailure(stage string) {
	if globalManager.enabled {
		globalManager.syncFailures.WithLabelValues(stage).Inc()
	}
}

// RecordSyncDuration observes the wall time of a full sync cycle.
func RecordSyncDuration(seconds float64) {
	if globalManager.enabled {
		globalManager.syncDuration.Observe(seconds)
	}
}

// RecordPageFetched counts one retrieved activity page with its record count.
func RecordPageFetched(records int) {
	if globalManager.enabled {
		globalManager.pagesFetched.Inc()
		globalManager.activitiesFetched.Add(float64(records))
	}
}

// RecordTokenRefresh counts an access-token exchange.
func RecordTokenRefresh() {
	if globalManager.enabled {
		globalManager.tokenRefreshes.Inc()
	}
}

// RecordTokenCacheHit counts a memoized token reuse.
func RecordTokenCacheHit() {
	if globalManager.enabled {
		globalManager.tokenCacheHits.Inc()
	}
}

// RecordActivitiesProcessed counts normalized records.
func RecordActivitiesProcessed(n int) {
	if globalManager.enabled {
		globalManager.activitiesProcessed.Add(float64(n))
	}
}

// RecordDuplicateDropped counts a record dropped by id deduplication.
func RecordDuplicateDropped() {
	if globalManager.enabled {
		globalManager.duplicatesDropped.Inc()
	}
}

// UpdateSnapshotRows sets the current snapshot row count.
func UpdateSnapshotRows(n int) {
	if globalManager.enabled {
		globalManager.snapshotRows.Set(float64(n))
	}
}

// RecordSnapshotSave observes a snapshot write and stamps its time.
func RecordSnapshotSave(seconds float64, unixTime int64) {
	if globalManager.enabled {
		globalManager.snapshotSaveDuration.Observe(seconds)
		globalManager.snapshotLastUnix.Set(float64(unixTime))
	}
}

// RecordSnapshotLoad observes a snapshot read.
func RecordSnapshotLoad(seconds float64) {
	if globalManager.enabled {
		globalManager.snapshotLoadDuration.Observe(seconds)
	}
}

// RecordBackfilledColumn counts a derived column recomputed at load time.
func RecordBackfilledColumn() {
	if globalManager.enabled {
		globalManager.backfilledColumns.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry exposes the registry backing the global manager so the
// HTTP layer can serve it.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}
