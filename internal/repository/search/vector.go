package search

import (
	"context"
	"fmt"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/repository/incident"
)

// knnSearcher is the consumer interface for vector search (ISP).
type knnSearcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// filterFields maps public filter keys to indexed TAG fields.
var filterFields = map[string]string{
	filter.KeyIncidentID: incident.FieldIncidentID,
	filter.KeyCategory:   incident.FieldCategory,
	filter.KeyStatus:     incident.FieldStatus,
	filter.KeyPriority:   incident.FieldPriority,
}

// VectorAdapter embeds the query and runs a filtered KNN search.
type VectorAdapter struct {
	store     knnSearcher
	embedder  domain.Embedder
	schema    incident.Schema
	efRuntime int
}

// NewVector creates a vector adapter. efRuntime <= 0 keeps the index default.
func NewVector(s knnSearcher, e domain.Embedder, schema incident.Schema, efRuntime int) *VectorAdapter {
	return &VectorAdapter{store: s, embedder: e, schema: schema, efRuntime: efRuntime}
}

// Engine identifies the adapter.
func (a *VectorAdapter) Engine() mode.Mode { return mode.Vector }

// Search returns at most topK candidates by descending cosine similarity.
// Non-empty filters are applied as exact-match pre-filters.
func (a *VectorAdapter) Search(
	ctx context.Context, query string, topK int, filters filter.Filters,
) ([]result.Candidate, error) {
	emb, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, domain.NewVectorFailure(query, fmt.Errorf("embed query: %w", err))
	}
	if err := domain.CheckDimension(emb.Embedding, a.schema.Dimensions); err != nil {
		return nil, domain.NewVectorFailure(query, err)
	}

	sr, err := a.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    a.schema.IndexName,
		VectorField:  incident.FieldVector,
		Vector:       emb.Embedding,
		K:            topK,
		EFRuntime:    a.efRuntime,
		Filters:      tagFilters(filters),
		ReturnFields: incident.ReturnFields,
	})
	if err != nil {
		return nil, domain.NewVectorFailure(query, fmt.Errorf("search knn %s: %w", a.schema.IndexName, err))
	}

	return toCandidates(a.schema, sr, mode.Vector, topK), nil
}

func tagFilters(f filter.Filters) []db.TagFilter {
	pairs := f.Pairs()
	if len(pairs) == 0 {
		return nil
	}
	out := make([]db.TagFilter, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, db.TagFilter{Field: filterFields[p.Key], Values: []string{p.Value}})
	}
	return out
}
