package recallrai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	asyncSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallrai_client",
			Name:      "async_calls_submitted_total",
			Help:      "Calls accepted into the async executor.",
		},
		[]string{"shard"},
	)

	asyncFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallrai_client",
			Name:      "async_call_failures_total",
			Help:      "Async call attempts that returned an error.",
		},
		[]string{"shard"},
	)

	localRefusalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recallrai_client",
			Name:      "local_refusals_total",
			Help:      "Operations refused before any request was sent.",
		},
		[]string{"op"},
	)
)
