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

	// Benchmark metrics
	BenchmarksStarted   prometheus.Counter
	BenchmarksCompleted *prometheus.CounterVec
	BenchmarkDuration   prometheus.Histogram
	SitesBenchmarked    prometheus.Counter

	// Journey metrics
	JourneyOutcomes  *prometheus.CounterVec
	JourneySteps     prometheus.Histogram
	JourneyDuration  prometheus.Histogram
	FrictionRecorded *prometheus.CounterVec
	AbandonmentRisk  prometheus.Histogram

	// Browser metrics
	SessionsOpened    prometheus.Counter
	NavigationErrors  prometheus.Counter
	ScreenshotsStored prometheus.Counter

	// System metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	GoroutinesActive    prometheus.Gauge
}

// NewMetrics creates a new metrics instance with all Prometheus metrics registered
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "uxbench"
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

		// Benchmark metrics
		BenchmarksStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "benchmarks_started_total",
				Help:      "Total number of benchmark runs started",
			},
		),
		BenchmarksCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "benchmarks_completed_total",
				Help:      "Total number of benchmark runs completed",
			},
			[]string{"status"},
		),
		BenchmarkDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "benchmark_duration_seconds",
				Help:      "Benchmark run duration in seconds",
				Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200},
			},
		),
		SitesBenchmarked: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sites_benchmarked_total",
				Help:      "Total number of sites visited across all benchmarks",
			},
		),

		// Journey metrics
		JourneyOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journey_outcomes_total",
				Help:      "Journey outcomes by result",
			},
			[]string{"outcome"}, // achieved, abandoned, error
		),
		JourneySteps: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "journey_steps",
				Help:      "Number of steps taken per journey",
				Buckets:   []float64{1, 2, 3, 5, 8, 12, 20, 30},
			},
		),
		JourneyDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "journey_duration_seconds",
				Help:      "Journey duration in seconds",
				Buckets:   []float64{5, 10, 20, 40, 60, 120, 180, 300},
			},
		),
		FrictionRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "friction_recorded_total",
				Help:      "Friction points observed during journeys",
			},
			[]string{"kind"},
		),
		AbandonmentRisk: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "abandonment_risk",
				Help:      "Abandonment risk score distribution",
				Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),

		// Browser metrics
		SessionsOpened: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "browser_sessions_opened_total",
				Help:      "Total number of browser sessions opened",
			},
		),
		NavigationErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigation_errors_total",
				Help:      "Total number of failed navigations",
			},
		),
		ScreenshotsStored: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "screenshots_stored_total",
				Help:      "Total number of screenshots persisted",
			},
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

// RecordBenchmarkStart records the start of a benchmark run
func (m *Metrics) RecordBenchmarkStart(siteCount int) {
	m.BenchmarksStarted.Inc()
	m.SitesBenchmarked.Add(float64(siteCount))
}

// RecordBenchmarkComplete records benchmark run completion
func (m *Metrics) RecordBenchmarkComplete(status string, duration time.Duration) {
	m.BenchmarksCompleted.WithLabelValues(status).Inc()
	m.BenchmarkDuration.Observe(duration.Seconds())
}

// RecordJourney records the outcome of a single site journey
func (m *Metrics) RecordJourney(outcome string, steps int, duration time.Duration, risk float64) {
	m.JourneyOutcomes.WithLabelValues(outcome).Inc()
	m.JourneySteps.Observe(float64(steps))
	m.JourneyDuration.Observe(duration.Seconds())
	m.AbandonmentRisk.Observe(risk)
}

// RecordFriction records an observed friction point
func (m *Metrics) RecordFriction(kind string) {
	m.FrictionRecorded.WithLabelValues(kind).Inc()
}

// RecordSession records one browser session and whether its navigation failed
func (m *Metrics) RecordSession(navFailed bool) {
	m.SessionsOpened.Inc()
	if navFailed {
		m.NavigationErrors.Inc()
	}
}

// RecordScreenshots adds persisted screenshots to the running total
func (m *Metrics) RecordScreenshots(n int) {
	if n > 0 {
		m.ScreenshotsStored.Add(float64(n))
	}
}

// RecordSystemStats updates the process-level gauges
func (m *Metrics) RecordSystemStats(dbInUse, dbIdle, goroutines int) {
	m.DBConnectionsActive.Set(float64(dbInUse))
	m.DBConnectionsIdle.Set(float64(dbIdle))
	m.GoroutinesActive.Set(float64(goroutines))
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
