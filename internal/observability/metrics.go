package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	restoreInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restorectl",
			Subsystem: "restore",
			Name:      "invocations_total",
			Help:      "Restore graph invocations by terminal phase.",
		},
		[]string{"phase"},
	)
	restoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restorectl",
			Subsystem: "restore",
			Name:      "invocation_duration_seconds",
			Help:      "Restore graph invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"phase"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restorectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restorectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(restoreInvocations, restoreDuration, httpRequests, httpDuration)
	})
}

func RecordInvocation(phase string, duration time.Duration) {
	RegisterMetrics()
	restoreInvocations.WithLabelValues(phase).Inc()
	restoreDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
