package search

import (
	"context"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/repository/incident"
)

// mockStore implements both consumer interfaces for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockEmbedder returns a fixed vector or error.
type mockEmbedder struct {
	vec   []float32
	err   error
	calls []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

func testSchema() incident.Schema {
	return incident.Schema{IndexName: "idx:incidents", KeyPrefix: "incident:", Dimensions: 3}
}

func hit(id string, score float64, status string) db.SearchEntry {
	return db.SearchEntry{
		Key:   "incident:" + id,
		Score: score,
		Fields: map[string]string{
			incident.FieldIncidentID:     id,
			incident.FieldSummary:        "summary " + id,
			incident.FieldDescription:    "description " + id,
			incident.FieldSearchableText: "Incident ID: " + id,
			incident.FieldStatus:         status,
		},
	}
}
