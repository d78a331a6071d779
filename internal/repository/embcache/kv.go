package embcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// DefaultKeyPrefix namespaces cached embeddings in the key-value store.
const DefaultKeyPrefix = "emb_cache:"

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KVOptions configures the key-value tier.
type KVOptions struct {
	Model     string
	KeyPrefix string
	TTL       time.Duration // 0 keeps entries forever
}

// NewKV creates a caching decorator backed by the key-value store.
// cacheTotal is a counter vec with labels "tier" and "result" ("hit"/"miss"), passed explicitly.
func NewKV(
	inner domain.Embedder,
	s store,
	opts KVOptions,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CachedEmbedder{
		inner:      inner,
		tier:       &kvTier{store: s, ttl: opts.TTL, logger: logger},
		name:       TierKV,
		keyPrefix:  prefix,
		model:      opts.Model,
		cacheTotal: cacheTotal,
	}
}

type kvTier struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

func (t *kvTier) get(ctx context.Context, key string) ([]float32, bool) {
	data, err := t.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			t.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		t.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (t *kvTier) put(ctx context.Context, key string, vec []float32) {
	if err := t.store.SetWithTTL(ctx, key, []byte(db.VectorToBytes(vec)), t.ttl); err != nil {
		t.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	return db.BytesToVector(string(data)), nil
}
