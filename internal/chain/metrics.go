package chain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Node request metrics
	NodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "computechain_explorer_node_requests_total",
			Help: "Total number of node API requests by method",
		},
		[]string{"method"},
	)

	NodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "computechain_explorer_node_errors_total",
			Help: "Total number of node API errors by method and type",
		},
		[]string{"method", "error_type"},
	)

	NodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "computechain_explorer_node_request_duration_seconds",
			Help:    "Duration of node API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	NodeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "computechain_explorer_node_retries_total",
			Help: "Total number of retried node API requests by method",
		},
		[]string{"method"},
	)
)

func NodeMethodInc(method string) {
	NodeRequests.WithLabelValues(method).Inc()
}

func NodeMethodDuration(method string, duration time.Duration) {
	NodeDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func NodeMethodError(method, errorType string) {
	NodeErrors.WithLabelValues(method, errorType).Inc()
}

func NodeRetryInc(method string) {
	NodeRetries.WithLabelValues(method).Inc()
}
