package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP, cache and domain events.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	matchQueryDuration prometheus.Histogram
	matchResults       prometheus.Histogram
	requestTransitions *prometheus.CounterVec
	sessionTransitions *prometheus.CounterVec
	feedbackTotal      *prometheus.CounterVec
	presenceWrites     *prometheus.CounterVec
	jobsTotal          *prometheus.CounterVec
	jobDuration        *prometheus.HistogramVec
}

// NewMetricsService registers collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache set operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		matchQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "match_query_duration_seconds",
			Help:    "End to end duration of match ranking queries",
			Buckets: prometheus.DefBuckets,
		}),
		matchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "match_results_count",
			Help:    "Number of candidates returned per match query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		requestTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_request_transitions_total",
			Help: "Session request lifecycle events by action and outcome",
		}, []string{"action", "outcome"}),
		sessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learning_session_transitions_total",
			Help: "Learning session lifecycle events by transition and outcome",
		}, []string{"transition", "outcome"}),
		feedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learning_session_feedback_total",
			Help: "Feedback submissions by participant side",
		}, []string{"side"}),
		presenceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_heartbeats_total",
			Help: "Presence heartbeats by result",
		}, []string{"result"}),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "background_jobs_total",
			Help: "Background jobs by type and outcome",
		}, []string{"type", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "background_job_duration_seconds",
			Help:    "Background job run time",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency.(prometheus.Collector), m.cacheWrite.(prometheus.Collector), m.cacheHits, m.cacheMisses,
		m.dbQueryDuration, m.matchQueryDuration, m.matchResults,
		m.requestTransitions, m.sessionTransitions, m.feedbackTotal, m.presenceWrites,
		m.jobsTotal, m.jobDuration, goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveMatchQuery records one ranking run.
func (m *MetricsService) ObserveMatchQuery(results int, duration time.Duration) {
	if m == nil {
		return
	}
	m.matchQueryDuration.Observe(duration.Seconds())
	m.matchResults.Observe(float64(results))
}

// RecordRequestTransition counts a session request event.
func (m *MetricsService) RecordRequestTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.requestTransitions.WithLabelValues(action, outcome).Inc()
}

// RecordSessionTransition counts a learning session event.
func (m *MetricsService) RecordSessionTransition(transition, outcome string) {
	if m == nil {
		return
	}
	m.sessionTransitions.WithLabelValues(transition, outcome).Inc()
}

// RecordFeedback counts a feedback submission.
func (m *MetricsService) RecordFeedback(side string) {
	if m == nil {
		return
	}
	m.feedbackTotal.WithLabelValues(side).Inc()
}

// RecordPresence counts a heartbeat by result (written, throttled, failed).
func (m *MetricsService) RecordPresence(result string) {
	if m == nil {
		return
	}
	m.presenceWrites.WithLabelValues(result).Inc()
}

// ObserveJob records a finished background job.
func (m *MetricsService) ObserveJob(jobType string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobsTotal.WithLabelValues(jobType, outcome).Inc()
	m.jobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}
