package embcache

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// DefaultLRUSize bounds the in-process tier when no size is configured.
const DefaultLRUSize = 1000

// NewLRU creates a caching decorator backed by a bounded in-process LRU.
// Repeated queries within one process skip both the provider and the network cache.
func NewLRU(inner domain.Embedder, size int, model string, cacheTotal *prometheus.CounterVec) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{
		inner:      inner,
		tier:       &lruTier{cache: cache},
		name:       TierLRU,
		model:      model,
		cacheTotal: cacheTotal,
	}, nil
}

type lruTier struct {
	cache *lru.Cache[string, []float32]
}

// Vectors are cloned on the way in and out so callers cannot mutate cached entries.
func (t *lruTier) get(_ context.Context, key string) ([]float32, bool) {
	vec, ok := t.cache.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(vec), true
}

func (t *lruTier) put(_ context.Context, key string, vec []float32) {
	t.cache.Add(key, slices.Clone(vec))
}
