package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_console_backend_requests_total",
			Help: "Backend calls issued by the console, by resource, operation and outcome.",
		},
		[]string{"resource", "op", "outcome"},
	)

	requestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_console_backend_request_seconds",
			Help:    "Latency of backend calls issued by the console.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "op"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestSeconds)
}

func outcomeOf(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return "transport_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "ok"
	}
}
