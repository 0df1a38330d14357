package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	submissionsTotal      *prometheus.CounterVec
	gradingSeconds        prometheus.Histogram
	resultCacheRequests   *prometheus.CounterVec
	resultEventsPublished *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lingua_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 15.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_submissions_total",
			Help: "Submissions handled by the grading engine, by outcome.",
		}, []string{"status"})

		gradingSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lingua_grading_duration_seconds",
			Help:    "Time spent grading one submission, including writing evaluation.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		})

		resultCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_result_cache_requests_total",
			Help: "Result view cache lookups by outcome.",
		}, []string{"outcome"})

		resultEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_result_events_total",
			Help: "Result events published per transport and outcome.",
		}, []string{"transport", "outcome"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsTotal,
			gradingSeconds,
			resultCacheRequests,
			resultEventsPublished,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Submissions counts submissions by resulting status, or "rejected" and "error".
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingDuration exposes the per-submission grading histogram.
func GradingDuration() prometheus.Histogram {
	RegisterMetrics()
	return gradingSeconds
}

// ResultCacheRequests counts result cache hits, misses and errors.
func ResultCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return resultCacheRequests
}

// ResultEvents counts published result events.
func ResultEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return resultEventsPublished
}
