// Package db defines the storage contract shared by the Redis and in-process
// drivers: incident hashes, an FT index with BM25 text and HNSW vector search,
// and a small key-value space for the embedding cache.
package db

import (
	"context"
	"time"
)

// Store is everything the application needs from a driver. Consumers depend
// on the narrow interfaces below.
//
//nolint:interfacebloat // driver facade; see the sub-interfaces
type Store interface {
	Pinger
	HashStore
	KVStore
	IndexManager
	Searcher
	Close()
}

// Pinger reports whether the driver can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one hash write. Fields are merged into an existing hash.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore holds one hash per incident.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	// Scan lists keys matching a glob pattern such as "incident:*".
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore backs the shared embedding cache. A zero ttl keeps the value.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager creates and drops the incident index. Dropping keeps the hashes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs the two retrieval engines and counts indexed records.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index string) (int, error)
}
