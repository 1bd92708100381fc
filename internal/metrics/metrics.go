// Package metrics holds the prometheus collectors for quiz and analysis activity.
// Collectors work before Init; Init only registers them for /metrics.
package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quizcoach/internal/domain"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizzesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_sessions_started_total",
			Help: "Quiz sessions that entered the in-progress state",
		},
		[]string{"category"},
	)

	QuizzesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_sessions_completed_total",
			Help: "Quiz sessions completed, by completion reason",
		},
		[]string{"reason"},
	)

	RecordFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempt_record_failures_total",
			Help: "Attempts that could not be persisted, by failure kind",
		},
		[]string{"kind"},
	)

	AnalysisRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_analysis_requests_total",
			Help: "Analysis requests, by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_analysis_duration_seconds",
			Help:    "Latency of the analysis pipeline",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
		},
	)
)

var once sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizzesStarted,
			QuizzesCompleted,
			RecordFailures,
			AnalysisRequests,
			AnalysisDuration,
		)
	})
}

func QuizStarted(categoryID string) {
	QuizzesStarted.WithLabelValues(categoryID).Inc()
}

func QuizCompleted(reason domain.CompletionReason) {
	QuizzesCompleted.WithLabelValues(string(reason)).Inc()
}

// RecordFailed counts a recorder failure under its RecordError kind, or "unknown".
func RecordFailed(err error) {
	kind := "unknown"
	var recErr *domain.RecordError
	if errors.As(err, &recErr) {
		kind = string(recErr.Kind)
	}
	RecordFailures.WithLabelValues(kind).Inc()
}

// ObserveAnalysis counts one analysis run and its latency. Outcome is "ok" or the AnalysisError kind.
func ObserveAnalysis(err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.AnalysisUpstream)
		var aErr *domain.AnalysisError
		if errors.As(err, &aErr) {
			outcome = string(aErr.Kind)
		}
	}
	AnalysisRequests.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(d.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
