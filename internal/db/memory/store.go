// Package memory is an in-process db.Store for local runs and tests:
// hashes and keys live in maps, TEXT/TAG fields are indexed with bleve and
// vector fields with an HNSW graph.
package memory

import (
	"context"
	"errors"
	"maps"
	"path"
	"sync"
	"time"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var errClosed = errors.New("memory store is closed")

type kvEntry struct {
	value   []byte
	expires time.Time
}

// Store implements db.Store in process memory.
type Store struct {
	mu      sync.RWMutex
	hashes  map[string]map[string]string
	kv      map[string]kvEntry
	indexes map[string]*ftIndex
	closed  bool
	now     func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		hashes:  make(map[string]map[string]string),
		kv:      make(map[string]kvEntry),
		indexes: make(map[string]*ftIndex),
		now:     time.Now,
	}
}

// Ping reports an error once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close releases all bleve indexes.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range s.indexes {
		idx.close()
	}
	s.indexes = map[string]*ftIndex{}
	s.closed = true
}

// --- hashes ---

// HSetMulti merges fields into each hash and reindexes every covering index.
func (s *Store) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	for _, item := range items {
		h, ok := s.hashes[item.Key]
		if !ok {
			h = make(map[string]string, len(item.Fields))
			s.hashes[item.Key] = h
		}
		maps.Copy(h, item.Fields)
	}

	for _, idx := range s.indexes {
		if err := idx.upsert(items, s.hashes); err != nil {
			return &db.Error{Op: db.OpHSet, Err: err}
		}
	}
	return nil
}

// HGetAll returns a copy of all fields of a hash.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return maps.Clone(h), nil
}

// Del removes hashes and plain keys, and unindexes them.
func (s *Store) Del(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	for _, k := range keys {
		delete(s.hashes, k)
		delete(s.kv, k)
	}
	for _, idx := range s.indexes {
		if err := idx.remove(keys); err != nil {
			return &db.Error{Op: db.OpDel, Err: err}
		}
	}
	return nil
}

// Scan returns hash and plain keys matching a glob pattern.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for _, m := range []map[string]struct{}{keySet(s.hashes), keySet(s.kv)} {
		for k := range m {
			ok, err := path.Match(pattern, k)
			if err != nil {
				return nil, &db.Error{Op: db.OpScan, Err: err}
			}
			if ok {
				keys = append(keys, k)
			}
		}
	}
	return keys, nil
}

func keySet[V any](m map[string]V) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

// --- plain keys ---

// Get retrieves a value by key, honouring expiry.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.kv[key]
	if !ok || (!e.expires.IsZero() && s.now().After(e.expires)) {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// SetWithTTL stores a value with an expiration. A non-positive ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	e := kvEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.kv[key] = e
	return nil
}

// --- index lifecycle ---

// CreateIndex builds the bleve and HNSW structures and indexes existing covered hashes.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}

	idx, err := newFTIndex(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	existing := make([]db.HashSetItem, 0, len(s.hashes))
	for k := range s.hashes {
		existing = append(existing, db.HashSetItem{Key: k})
	}
	if err := idx.upsert(existing, s.hashes); err != nil {
		idx.close()
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	s.indexes[def.Name] = idx
	return nil
}

// DropIndex removes an index; hashes are kept.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		return db.ErrIndexNotFound
	}
	idx.close()
	delete(s.indexes, name)
	return nil
}

// IndexExists reports whether an index with the given name was created.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}
