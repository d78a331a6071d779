package embcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// --- Mocks ---

// fakeProvider derives a 2-d vector from the text so hits and misses are distinguishable.
type fakeProvider struct {
	mu         sync.Mutex
	calls      int
	batchCalls int
	batchSeen  [][]string
	fail       error
	shortBatch bool
}

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), float32(text[0])}
}

func (f *fakeProvider) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return domain.EmbeddingResult{}, f.fail
	}
	return domain.EmbeddingResult{Embedding: vectorFor(text), PromptTokens: 3, TotalTokens: 3}, nil
}

func (f *fakeProvider) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchSeen = append(f.batchSeen, append([]string(nil), texts...))
	if f.fail != nil {
		return domain.BatchEmbeddingResult{}, f.fail
	}
	n := len(texts)
	if f.shortBatch {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = vectorFor(texts[i])
	}
	return domain.BatchEmbeddingResult{Embeddings: out, PromptTokens: 3 * n, TotalTokens: 3 * n}, nil
}

// memKV is a map-backed store that records TTLs and can be told to fail.
type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

// --- Fixture ---

type tierCase struct {
	name  string
	build func(t *testing.T, inner domain.Embedder) *CachedEmbedder
}

// bothTiers runs behaviour shared by the key-value and LRU tiers.
func bothTiers() []tierCase {
	return []tierCase{
		{TierKV, func(_ *testing.T, inner domain.Embedder) *CachedEmbedder {
			return NewKV(inner, newMemKV(), KVOptions{Model: "text-embedding-3-small"}, nil, zap.NewNop())
		}},
		{TierLRU, func(t *testing.T, inner domain.Embedder) *CachedEmbedder {
			t.Helper()
			ce, err := NewLRU(inner, 16, "text-embedding-3-small", nil)
			if err != nil {
				t.Fatalf("NewLRU: %v", err)
			}
			return ce
		}},
	}
}
