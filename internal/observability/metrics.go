package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsActive  prometheus.Gauge

	// Engine metrics
	AnalysesTotal           *prometheus.CounterVec
	DetectionsTotal         *prometheus.CounterVec
	GenerationsTotal        *prometheus.CounterVec
	SuggestionsTotal        *prometheus.CounterVec
	FallbacksTotal          *prometheus.CounterVec
	FeedbackTotal           *prometheus.CounterVec
	EngineOperationDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Feedback pipeline metrics
	FeedbackBuffered prometheus.Gauge

	// Site import metrics
	SiteImportsTotal   *prometheus.CounterVec
	SiteImportDuration *prometheus.HistogramVec

	// Share metrics
	SharesCreated *prometheus.CounterVec
	ShareViews    *prometheus.CounterVec

	// Temporal workflow metrics
	WorkflowsStarted   *prometheus.CounterVec
	WorkflowsCompleted *prometheus.CounterVec
	WorkflowDuration   *prometheus.HistogramVec
	ActivitiesExecuted *prometheus.CounterVec

	// System metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	ResultCacheSize     prometheus.Gauge
	GoroutinesActive    prometheus.Gauge
}

// NewMetrics creates a new metrics instance with all Prometheus metrics registered
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pagewright"
	}

	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_active",
				Help:      "Number of active HTTP requests",
			},
		),

		// Engine metrics
		AnalysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of prompt analyses",
			},
			[]string{"intent"},
		),
		DetectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detections_total",
				Help:      "Total number of component detections",
			},
			[]string{"component_type"},
		),
		GenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of component generations",
			},
			[]string{"pattern"},
		),
		SuggestionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_total",
				Help:      "Total number of workflow suggestions produced",
			},
			[]string{"workflow_type"},
		),
		FallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_served_total",
				Help:      "Total number of fallback responses served",
			},
			[]string{"operation"},
		),
		FeedbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_received_total",
				Help:      "Total number of feedback entries received",
			},
			[]string{"target_type"},
		),
		EngineOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "engine_operation_duration_seconds",
				Help:      "Engine operation duration in seconds",
				Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
			},
			[]string{"operation"},
		),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of result cache hits",
			},
			[]string{"layer"}, // layer: memory, redis
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of result cache misses",
			},
			[]string{"layer"},
		),

		// Feedback pipeline metrics
		FeedbackBuffered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feedback_buffered",
				Help:      "Number of feedback entries buffered awaiting flush",
			},
		),

		// Site import metrics
		SiteImportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "site_imports_total",
				Help:      "Total number of site imports",
			},
			[]string{"status"},
		),
		SiteImportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "site_import_duration_seconds",
				Help:      "Site import duration in seconds",
				Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"status"},
		),

		// Share metrics
		SharesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shares_created_total",
				Help:      "Total number of share links created",
			},
			[]string{"kind"},
		),
		ShareViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "share_views_total",
				Help:      "Total number of share link views",
			},
			[]string{"kind"},
		),

		// Temporal workflow metrics
		WorkflowsStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflows_started_total",
				Help:      "Total number of workflows started",
			},
			[]string{"workflow_type"},
		),
		WorkflowsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflows_completed_total",
				Help:      "Total number of workflows completed",
			},
			[]string{"workflow_type", "status"},
		),
		WorkflowDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "workflow_duration_seconds",
				Help:      "Workflow execution duration in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"workflow_type"},
		),
		ActivitiesExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activities_executed_total",
				Help:      "Total number of activities executed",
			},
			[]string{"activity_type", "status"},
		),

		// System metrics
		DBConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_active",
				Help:      "Number of active database connections",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		ResultCacheSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "result_cache_size",
				Help:      "Current result cache memory layer size (number of entries)",
			},
		),
		GoroutinesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines_active",
				Help:      "Number of active goroutines",
			},
		),
	}

	return m
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis records a prompt analysis
func (m *Metrics) RecordAnalysis(intent string, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(intent).Inc()
	m.EngineOperationDuration.WithLabelValues("analyze").Observe(duration.Seconds())
}

// RecordDetection records a component detection
func (m *Metrics) RecordDetection(componentType string, duration time.Duration) {
	m.DetectionsTotal.WithLabelValues(componentType).Inc()
	m.EngineOperationDuration.WithLabelValues("detect").Observe(duration.Seconds())
}

// RecordGeneration records a component generation
func (m *Metrics) RecordGeneration(pattern string, duration time.Duration) {
	m.GenerationsTotal.WithLabelValues(pattern).Inc()
	m.EngineOperationDuration.WithLabelValues("generate").Observe(duration.Seconds())
}

// RecordSuggestions records produced workflow suggestions
func (m *Metrics) RecordSuggestions(workflowType string, count int, duration time.Duration) {
	m.SuggestionsTotal.WithLabelValues(workflowType).Add(float64(count))
	m.EngineOperationDuration.WithLabelValues("suggest").Observe(duration.Seconds())
}

// RecordFallback records a fallback response served for an operation
func (m *Metrics) RecordFallback(operation string) {
	m.FallbacksTotal.WithLabelValues(operation).Inc()
}

// RecordFeedback records a received feedback entry
func (m *Metrics) RecordFeedback(targetType string) {
	m.FeedbackTotal.WithLabelValues(targetType).Inc()
}

// RecordCacheHit records a result cache hit for a layer
func (m *Metrics) RecordCacheHit(layer string) {
	m.CacheHits.WithLabelValues(layer).Inc()
}

// RecordCacheMiss records a result cache miss for a layer
func (m *Metrics) RecordCacheMiss(layer string) {
	m.CacheMisses.WithLabelValues(layer).Inc()
}

// SetFeedbackBuffered sets the buffered feedback gauge
func (m *Metrics) SetFeedbackBuffered(n int) {
	m.FeedbackBuffered.Set(float64(n))
}

// RecordSiteImport records a site import
func (m *Metrics) RecordSiteImport(status string, duration time.Duration) {
	m.SiteImportsTotal.WithLabelValues(status).Inc()
	m.SiteImportDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordShareCreated records a created share link
func (m *Metrics) RecordShareCreated(kind string) {
	m.SharesCreated.WithLabelValues(kind).Inc()
}

// RecordShareView records a share link view
func (m *Metrics) RecordShareView(kind string) {
	m.ShareViews.WithLabelValues(kind).Inc()
}

// RecordWorkflowStart records workflow start
func (m *Metrics) RecordWorkflowStart(workflowType string) {
	m.WorkflowsStarted.WithLabelValues(workflowType).Inc()
}

// RecordWorkflowComplete records workflow completion
func (m *Metrics) RecordWorkflowComplete(workflowType, status string, duration time.Duration) {
	m.WorkflowsCompleted.WithLabelValues(workflowType, status).Inc()
	m.WorkflowDuration.WithLabelValues(workflowType).Observe(duration.Seconds())
}

// RecordActivityExecution records activity execution
func (m *Metrics) RecordActivityExecution(activityType, status string) {
	m.ActivitiesExecuted.WithLabelValues(activityType, status).Inc()
}

// HTTPMiddleware returns middleware for recording HTTP metrics
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsActive.Inc()
		defer m.HTTPRequestsActive.Dec()

		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Global metrics instance
var globalMetrics *Metrics

// InitMetrics initializes the global metrics instance
func InitMetrics(namespace string) *Metrics {
	globalMetrics = NewMetrics(namespace)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		globalMetrics = NewMetrics("pagewright")
	}
	return globalMetrics
}
