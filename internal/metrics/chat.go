package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat completion Prometheus metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_requests_total",
			Help:      "Total chat completion requests",
		},
		[]string{"model", "outcome"}, // outcome: "ok" / "error"
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_tokens_total",
			Help:      "Total chat tokens consumed",
		},
		[]string{"model", "type"}, // type: "prompt" / "completion"
	)
)
