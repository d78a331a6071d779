package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// SearchText runs the exact-OR-fuzzy disjunction through bleve.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, errors.New("query is required")
	}
	if q.TopK <= 0 {
		return nil, errors.New("topK must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}

	disjuncts := textDisjuncts(q)
	if len(disjuncts) == 0 {
		return &db.SearchResult{}, nil
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(disjuncts...))
	req.Size = q.TopK

	res, err := idx.text.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	out := &db.SearchResult{Total: int(res.Total), Entries: make([]db.SearchEntry, 0, len(res.Hits))}
	for _, hit := range res.Hits {
		out.Entries = append(out.Entries, db.SearchEntry{
			Key:    hit.ID,
			Score:  hit.Score,
			Fields: project(s.hashes[hit.ID], q.ReturnFields, ""),
		})
	}
	return out, nil
}

func textDisjuncts(q *db.TextQuery) []query.Query {
	terms := db.QueryTerms(q.Query)
	if len(terms) == 0 {
		return nil
	}

	var out []query.Query

	tagValues := append([]string{}, terms...)
	if whole := strings.ToLower(strings.Join(strings.Fields(q.Query), " ")); strings.Contains(whole, " ") {
		tagValues = append(tagValues, whole)
	}
	for _, f := range q.ExactFields {
		for _, v := range tagValues {
			tq := bleve.NewTermQuery(v)
			tq.SetField(f)
			out = append(out, tq)
		}
	}

	for _, f := range q.FuzzyFields {
		for _, t := range terms {
			if q.FuzzyMaxEdits > 0 && len(t) >= db.MinFuzzyTermLength {
				fq := bleve.NewFuzzyQuery(t)
				fq.SetFuzziness(min(q.FuzzyMaxEdits, 2))
				fq.SetField(f)
				out = append(out, fq)
				continue
			}
			tq := bleve.NewTermQuery(t)
			tq.SetField(f)
			out = append(out, tq)
		}
	}
	return out
}

// SearchKNN ranks by cosine similarity. With tag filters the filtered subset is
// scanned exactly; otherwise the HNSW graph is searched.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Exclusive: EfSearch is a graph field and is adjusted per query.
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}
	if idx.graph == nil {
		return nil, &db.Error{Op: db.OpSearch, Err: errors.New("index has no vector field")}
	}
	if len(q.Vector) != idx.vecField.Vector.Dim {
		return nil, &db.Error{Op: db.OpSearch, Key: q.IndexName, Err: fmt.Errorf(
			"vector dimension %d does not match index dimension %d", len(q.Vector), idx.vecField.Vector.Dim)}
	}

	qv := append([]float32(nil), q.Vector...)
	normalize(qv)

	var entries []db.SearchEntry
	if hasFilters(q.Filters) {
		entries = s.scanFiltered(idx, qv, q)
	} else {
		entries = s.searchGraph(idx, qv, q)
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func (s *Store) searchGraph(idx *ftIndex, qv []float32, q *db.KNNQuery) []db.SearchEntry {
	if len(idx.keyOf) == 0 {
		return nil
	}
	idx.graph.EfSearch = max(q.EFRuntime, q.K, 20)

	nodes := idx.graph.Search(qv, q.K+idx.orphans())
	entries := make([]db.SearchEntry, 0, q.K)
	for _, n := range nodes {
		key, live := idx.keyOf[n.Key]
		if !live {
			continue
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  similarity(qv, n.Value),
			Fields: project(s.hashes[key], q.ReturnFields, idx.vecField.Name),
		})
	}
	sortByScore(entries)
	if len(entries) > q.K {
		entries = entries[:q.K]
	}
	return entries
}

func (s *Store) scanFiltered(idx *ftIndex, qv []float32, q *db.KNNQuery) []db.SearchEntry {
	var entries []db.SearchEntry
	for key, vec := range idx.vectors {
		if !matchesAll(s.hashes[key], q.Filters) {
			continue
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  similarity(qv, vec),
			Fields: project(s.hashes[key], q.ReturnFields, idx.vecField.Name),
		})
	}
	sortByScore(entries)
	if len(entries) > q.K {
		entries = entries[:q.K]
	}
	return entries
}

// SearchCount returns the number of documents in an index.
func (s *Store) SearchCount(_ context.Context, index string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[index]
	if !ok {
		return 0, db.ErrIndexNotFound
	}
	return len(idx.docs), nil
}

func hasFilters(filters []db.TagFilter) bool {
	for _, f := range filters {
		for _, v := range f.Values {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
	}
	return false
}

// matchesAll applies TAG semantics: every filter must match one of its values, case-insensitively.
func matchesAll(h map[string]string, filters []db.TagFilter) bool {
	for _, f := range filters {
		values := slices.DeleteFunc(slices.Clone(f.Values), func(v string) bool {
			return strings.TrimSpace(v) == ""
		})
		if len(values) == 0 {
			continue
		}
		got := strings.TrimSpace(h[f.Field])
		if !slices.ContainsFunc(values, func(v string) bool {
			return strings.EqualFold(strings.TrimSpace(v), got)
		}) {
			return false
		}
	}
	return true
}

func sortByScore(entries []db.SearchEntry) {
	slices.SortStableFunc(entries, func(a, b db.SearchEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// project copies the requested fields; an empty list returns every field except skip.
func project(h map[string]string, fields []string, skip string) map[string]string {
	out := make(map[string]string)
	if len(fields) == 0 {
		for k, v := range h {
			if k != skip {
				out[k] = v
			}
		}
		return out
	}
	for _, f := range fields {
		if v, ok := h[f]; ok {
			out[f] = v
		}
	}
	return out
}
