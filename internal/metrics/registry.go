package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric the service exports.
const Namespace = "incidentrag"

// ScrapePath is where the Prometheus handler is mounted; scrapes are not counted as traffic.
const ScrapePath = "/metrics"

var (
	searchOnce    sync.Once
	embeddingOnce sync.Once
	chatOnce      sync.Once
)

// RegisterSearchMetrics registers retrieval metrics with the default registry.
func RegisterSearchMetrics() {
	searchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal, SearchDuration, SearchEngineDuration,
			SearchCandidates, SearchPolicyDroppedTotal)
	})
}

// RegisterEmbeddingMetrics registers embedding provider and cache metrics.
func RegisterEmbeddingMetrics() {
	embeddingOnce.Do(func() {
		prometheus.MustRegister(EmbeddingRequestsTotal, EmbeddingRequestDuration, EmbeddingInputs,
			EmbeddingTokensTotal, EmbeddingErrorsTotal, EmbeddingCacheTotal)
	})
}

// RegisterChatMetrics registers chat completion metrics.
func RegisterChatMetrics() {
	chatOnce.Do(func() {
		prometheus.MustRegister(ChatRequestsTotal, ChatRequestDuration, ChatTokensTotal)
	})
}
