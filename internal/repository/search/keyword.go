// Package search holds the keyword and vector engine adapters. Each turns a
// query into per-engine candidates over the incident index.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/logger"
	"github.com/ashokkumar81090/Hackathon/internal/repository/incident"
)

// DefaultFuzzyMaxEdits is the typo tolerance of the fuzzy text clause.
const DefaultFuzzyMaxEdits = 1

// textSearcher is the consumer interface for keyword search (ISP).
type textSearcher interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// KeywordAdapter runs the compound exact-or-fuzzy text query.
type KeywordAdapter struct {
	store    textSearcher
	schema   incident.Schema
	maxEdits int
}

// NewKeyword creates a keyword adapter.
func NewKeyword(s textSearcher, schema incident.Schema) *KeywordAdapter {
	return &KeywordAdapter{store: s, schema: schema, maxEdits: DefaultFuzzyMaxEdits}
}

// Engine identifies the adapter.
func (a *KeywordAdapter) Engine() mode.Mode { return mode.Keyword }

// Search returns at most topK candidates in index relevance order.
// Structured filters are not supported on this path and are ignored.
func (a *KeywordAdapter) Search(
	ctx context.Context, query string, topK int, filters filter.Filters,
) ([]result.Candidate, error) {
	if !filters.IsEmpty() {
		logger.FromContext(ctx).Debug("keyword search ignores filters",
			zap.Any("filters", filters))
	}

	sr, err := a.store.SearchText(ctx, &db.TextQuery{
		IndexName:     a.schema.IndexName,
		Query:         query,
		ExactFields:   incident.ExactFields,
		FuzzyFields:   incident.FuzzyFields,
		FuzzyMaxEdits: a.maxEdits,
		TopK:          topK,
		ReturnFields:  incident.ReturnFields,
	})
	if err != nil {
		return nil, domain.NewKeywordFailure(query, fmt.Errorf("search text %s: %w", a.schema.IndexName, err))
	}

	return toCandidates(a.schema, sr, mode.Keyword, topK), nil
}

// toCandidates converts hits in order, capping the list at topK.
func toCandidates(schema incident.Schema, sr *db.SearchResult, engine mode.Mode, topK int) []result.Candidate {
	if sr == nil || len(sr.Entries) == 0 {
		return []result.Candidate{}
	}
	n := len(sr.Entries)
	if topK > 0 && n > topK {
		n = topK
	}
	out := make([]result.Candidate, 0, n)
	for _, e := range sr.Entries[:n] {
		out = append(out, schema.ToCandidate(e, engine))
	}
	return out
}
