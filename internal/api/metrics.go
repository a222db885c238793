package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallrai_client",
			Name:      "requests_total",
			Help:      "Requests that received an HTTP response, by method and status code.",
		},
		[]string{"method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recallrai_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of requests, including failed ones.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	networkErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallrai_client",
			Name:      "network_errors_total",
			Help:      "Requests that failed before a response arrived.",
		},
		[]string{"kind"},
	)
)
