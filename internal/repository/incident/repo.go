// Package incident stores incident records as hashes under an FT index
// that serves both keyword and vector retrieval.
package incident

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
)

// store is the consumer interface for incidents (ISP).
//
//nolint:interfacebloat // repo needs hash + index management operations
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index string) (int, error)
}

// Record is an incident paired with its document embedding.
type Record struct {
	Incident incident.Incident
	Vector   []float32
}

// Repo persists incidents.
type Repo struct {
	store  store
	schema Schema
}

// New creates an incident repository.
func New(s store, schema Schema) *Repo {
	return &Repo{store: s, schema: schema}
}

// Schema returns the index layout the repo writes to.
func (r *Repo) Schema() Schema { return r.schema }

// EnsureIndex creates the FT index unless it already exists. Returns true if created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	def, err := r.schema.Definition()
	if err != nil {
		return false, fmt.Errorf("build index: %w", err)
	}

	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		return false, nil
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost a race with another process creating the same index.
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return true, nil
}

// IndexReady reports whether the FT index exists.
func (r *Repo) IndexReady(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.schema.IndexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.schema.IndexName, err)
	}
	return ok, nil
}

// DropIndex removes the FT index, keeping the hashes. A missing index is not an error.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.schema.IndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.schema.IndexName, err)
	}
	return nil
}

// SaveBatch upserts incidents in one pipelined round-trip.
func (r *Repo) SaveBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(records))
	for i := range records {
		rec := &records[i]
		if len(rec.Vector) != r.schema.Dimensions {
			return &domain.DimensionMismatchError{Expected: r.schema.Dimensions, Got: len(rec.Vector)}
		}
		items[i] = db.HashSetItem{
			Key:    r.schema.Key(rec.Incident.IncidentID),
			Fields: toHash(&rec.Incident, rec.Vector),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d incidents: %w", len(records), err)
	}
	return nil
}

// Get returns a stored incident by ID.
func (r *Repo) Get(ctx context.Context, incidentID string) (incident.Incident, error) {
	key := r.schema.Key(incidentID)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return incident.Incident{}, domain.ErrIncidentNotFound
		}
		return incident.Incident{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return fromHash(m), nil
}

// Count returns the number of indexed incidents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.schema.IndexName)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.schema.IndexName, err)
	}
	return n, nil
}

// Clear deletes every incident hash under the key prefix and returns how many were removed.
func (r *Repo) Clear(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.schema.KeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s*: %w", r.schema.KeyPrefix, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("delete %d incidents: %w", len(keys), err)
	}
	return len(keys), nil
}
