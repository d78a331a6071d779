package db

import (
	"strings"
	"unicode"
)

// TagFilter restricts a search to records whose TAG field equals one of Values.
type TagFilter struct {
	Field  string
	Values []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	EFRuntime    int // candidate list size explored by HNSW at query time; 0 keeps the index default
	Filters      []TagFilter
	ReturnFields []string
}

// TextQuery is the input for compound full-text search: an exact clause over
// ExactFields OR a fuzzy clause over FuzzyFields, any term matching.
type TextQuery struct {
	IndexName     string
	Query         string
	ExactFields   []string
	FuzzyFields   []string
	FuzzyMaxEdits int
	TopK          int
	ReturnFields  []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Score is higher-is-better for both text relevance and vector similarity.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// MinFuzzyTermLength is the shortest term that gets fuzzy expansion.
// Shorter terms match exactly; one edit on a two-letter word matches nearly anything.
const MinFuzzyTermLength = 4

// QueryTerms splits free text into lower-cased alphanumeric terms,
// deduplicated in first-seen order.
func QueryTerms(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
