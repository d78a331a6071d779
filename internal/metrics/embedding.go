package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding provider metrics are recorded by the OpenAI-compatible transport;
// cache metrics by the cache tiers in front of it.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding API calls by outcome",
		},
		[]string{"provider", "model", "outcome"}, // outcome: "ok" / "error"
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding API call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	// EmbeddingInputs shows whether ingestion batches actually reach the API batched.
	EmbeddingInputs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "embedding_inputs_per_request",
			Help:      "Texts sent in a single embedding API call",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 256},
		},
		[]string{"provider"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens billed by the provider",
		},
		[]string{"provider", "model", "type"}, // type: "prompt" / "total"
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_errors_total",
			Help:      "Embedding failures by kind",
		},
		[]string{"provider", "model", "kind"}, // api_error, count_mismatch, dimension_mismatch
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups per tier",
		},
		[]string{"tier", "result"}, // tier: "kv" / "lru"; result: "hit" / "miss"
	)
)
