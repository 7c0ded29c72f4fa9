package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog store metrics
var (
	CatalogQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_store_queries_total",
			Help: "Total number of catalog store queries",
		},
		[]string{"operation", "status"},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_store_query_duration_seconds",
			Help:    "Catalog store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	CatalogFilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_files_total",
			Help: "Number of files currently in the catalog",
		},
	)

	CatalogTagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_tags_total",
			Help: "Number of tags currently in the catalog",
		},
	)
)

// Reconciliation metrics
var (
	ReconcileRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_reconcile_runs_total",
			Help: "Total number of reconciliation passes",
		},
	)

	ReconcileFastPathTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_reconcile_fast_path_total",
			Help: "Reconciliation passes resolved by the count heuristic without a full diff",
		},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_catalog_reconcile_duration_seconds",
			Help:    "Duration of reconciliation passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReconcileAdditions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_reconcile_additions_total",
			Help: "Files added to the catalog by reconciliation",
		},
	)

	ReconcileRemovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_reconcile_removals_total",
			Help: "Files removed from the catalog by reconciliation",
		},
	)

	ReconcileErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_reconcile_errors_total",
			Help: "Reconciliation passes aborted by an error",
		},
	)

	ReconcileState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_reconcile_state",
			Help: "Current reconciliation state (0=idle, 1=scanning, 2=diffing, 3=applying additions, 4=applying removals, 5=applying both)",
		},
	)
)

// Thumbnail pipeline metrics
var (
	PipelineFilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_pipeline_files_total",
			Help: "Files processed by the thumbnail pipeline",
		},
		[]string{"class", "status"},
	)

	PipelineRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_pipeline_render_duration_seconds",
			Help:    "Per-file thumbnail render duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"class"},
	)

	PipelineBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_pipeline_batches_total",
			Help: "Completed thumbnail generation batches",
		},
		[]string{"status"},
	)

	PipelineRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_pipeline_running",
			Help: "Whether a thumbnail generation batch is in progress (1) or not (0)",
		},
	)
)

// Filesystem metrics
var (
	FilesystemRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retries_total",
			Help: "Filesystem operations retried after a transient error",
		},
		[]string{"operation"},
	)
)

// Memory management metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_paused",
			Help: "Whether processing is paused for memory pressure (1) or not (0)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_memory_gc_pauses_total",
			Help: "Forced garbage collections triggered by memory pressure",
		},
	)
)
