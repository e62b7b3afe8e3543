// Package metrics provides Prometheus metrics for the salary band service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Evaluation outcome label values.
const (
	OutcomeOK                 = "ok"
	OutcomeInvalidProfile     = "invalid_profile"
	OutcomePredictionFailed   = "prediction_failed"
	OutcomeConfigurationError = "configuration_error"
)

// probabilityBuckets split [0,1] into deciles.
var probabilityBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Evaluation metrics
	evaluations       *prometheus.CounterVec
	bandAssignments   *prometheus.CounterVec
	sentinelFallbacks prometheus.Counter
	probability       prometheus.Histogram
	scoringLatency    prometheus.Histogram
	scoringErrors     prometheus.Counter
	batchSize         prometheus.Histogram

	// Artifact metrics
	rulesReloads        *prometheus.CounterVec
	rulesBands          prometheus.Gauge
	rulesLastReloadUnix prometheus.Gauge
	modelLoads          *prometheus.CounterVec
	modelLoaded         prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salaryband",
		subsystem:        "evaluator",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(
		m.counterOpts("evaluations_total", "Total number of profile evaluations by outcome"),
		[]string{"outcome"},
	)
	m.bandAssignments = auto.NewCounterVec(
		m.counterOpts("band_assignments_total", "Total number of band recommendations by band name"),
		[]string{"band"},
	)
	m.sentinelFallbacks = auto.NewCounter(
		m.counterOpts("sentinel_fallbacks_total", "Evaluations where no configured band qualified"),
	)
	m.probability = auto.NewHistogram(
		m.histogramOpts("placement_probability", "Distribution of predicted placement probabilities", probabilityBuckets),
	)
	m.scoringLatency = auto.NewHistogram(
		m.histogramOpts("scoring_latency_milliseconds", "Histogram of scorer latency in milliseconds", m.histogramBuckets),
	)
	m.scoringErrors = auto.NewCounter(
		m.counterOpts("scoring_errors_total", "Total number of failed predictions"),
	)
	m.batchSize = auto.NewHistogram(
		m.histogramOpts("batch_size", "Number of profiles per batch evaluation", prometheus.ExponentialBuckets(1, 2, 10)),
	)

	m.rulesReloads = auto.NewCounterVec(
		m.counterOpts("rules_reloads_total", "Rule table load attempts by result"),
		[]string{"result"},
	)
	m.rulesBands = auto.NewGauge(
		m.gaugeOpts("rules_bands", "Number of bands in the active rule table"),
	)
	m.rulesLastReloadUnix = auto.NewGauge(
		m.gaugeOpts("rules_last_reload_unix", "Unix timestamp of the last successful rule table load"),
	)
	m.modelLoads = auto.NewCounterVec(
		m.counterOpts("model_loads_total", "Model artifact load attempts by result"),
		[]string{"result"},
	)
	m.modelLoaded = auto.NewGauge(
		m.gaugeOpts("model_loaded", "1 when a scoring pipeline is loaded"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordEvaluation counts one evaluation with the given outcome label.
func (m *Manager) RecordEvaluation(outcome string) {
	if !m.enabled {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

// RecordBand counts a band recommendation; sentinel marks a fallback.
func (m *Manager) RecordBand(band string, sentinel bool) {
	if !m.enabled {
		return
	}
	m.bandAssignments.WithLabelValues(band).Inc()
	if sentinel {
		m.sentinelFallbacks.Inc()
	}
}

// ObserveProbability records a predicted probability.
func (m *Manager) ObserveProbability(p float64) {
	if !m.enabled {
		return
	}
	m.probability.Observe(p)
}

// RecordScoringLatency records scorer latency in milliseconds.
func (m *Manager) RecordScoringLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.scoringLatency.Observe(latencyMs)
}

// RecordScoringError increments the failed predictions counter.
func (m *Manager) RecordScoringError() {
	if !m.enabled {
		return
	}
	m.scoringErrors.Inc()
}

// ObserveBatchSize records the size of a batch evaluation.
func (m *Manager) ObserveBatchSize(n int) {
	if !m.enabled {
		return
	}
	m.batchSize.Observe(float64(n))
}

// RecordRulesReload counts a rule table load attempt. On success bands is the new table size.
func (m *Manager) RecordRulesReload(ok bool, bands int) {
	if !m.enabled {
		return
	}
	if !ok {
		m.rulesReloads.WithLabelValues("failure").Inc()
		return
	}
	m.rulesReloads.WithLabelValues("success").Inc()
	m.rulesBands.Set(float64(bands))
	m.rulesLastReloadUnix.Set(float64(time.Now().Unix()))
}

// RecordModelLoad counts a model artifact load attempt.
func (m *Manager) RecordModelLoad(ok bool) {
	if !m.enabled {
		return
	}
	if !ok {
		m.modelLoads.WithLabelValues("failure").Inc()
		return
	}
	m.modelLoads.WithLabelValues("success").Inc()
	m.modelLoaded.Set(1)
}

// Global helpers delegate to the process-wide manager.

// Get returns the process-wide manager.
func Get() *Manager { return globalManager }

// Configure replaces the process-wide manager with one built from opts on a
// fresh registry. Call it before handlers capture GetRegistry.
func Configure(opts ...Option) *Manager {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
	return globalManager
}

// RecordEvaluation counts one evaluation with the given outcome label.
func RecordEvaluation(outcome string) { globalManager.RecordEvaluation(outcome) }

// RecordBand counts a band recommendation.
func RecordBand(band string, sentinel bool) { globalManager.RecordBand(band, sentinel) }

// ObserveProbability records a predicted probability.
func ObserveProbability(p float64) { globalManager.ObserveProbability(p) }

// RecordScoringLatency records scorer latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.RecordScoringLatency(latencyMs) }

// RecordScoringError increments the failed predictions counter.
func RecordScoringError() { globalManager.RecordScoringError() }

// ObserveBatchSize records the size of a batch evaluation.
func ObserveBatchSize(n int) { globalManager.ObserveBatchSize(n) }

// RecordRulesReload counts a rule table load attempt.
func RecordRulesReload(ok bool, bands int) { globalManager.RecordRulesReload(ok, bands) }

// RecordModelLoad counts a model artifact load attempt.
func RecordModelLoad(ok bool) { globalManager.RecordModelLoad(ok) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
