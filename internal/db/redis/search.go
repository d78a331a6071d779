package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// Tag filters are applied as a pre-filter; scores are 1 - cosine distance clamped to [0,1].
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

	field := q.VectorField
	if field == "" {
		field = "vector"
	}
	scoreField := "__" + field + "_score"

	args := []string{q.IndexName, buildKNNQuery(q, field)}

	if len(q.ReturnFields) > 0 {
		ret := append(append([]string{}, q.ReturnFields...), scoreField)
		args = append(args, "RETURN", strconv.Itoa(len(ret)))
		args = append(args, ret...)
	}

	args = append(args,
		"SORTBY", scoreField,
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", db.VectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw, scoreField)
}

// SearchText runs a compound full-text search via FT.SEARCH: exact TAG matches
// on ExactFields OR fuzzy term matches on FuzzyFields.
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

	queryStr := buildTextQuery(q)
	if queryStr == "" {
		return &db.SearchResult{}, nil
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"WITHSCORES",
		"SCORER", s.scorer,
		"LIMIT", "0", strconv.Itoa(q.TopK),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseScoredResult(raw)
}

// SearchCount returns the number of documents in an index via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, "*", "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isMissingIndex(err) {
			return 0, db.ErrIndexNotFound
		}
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Query building ---

func buildKNNQuery(q *db.KNNQuery, field string) string {
	knn := fmt.Sprintf("[KNN %d @%s $BLOB", q.K, field)
	if q.EFRuntime > 0 {
		knn += " EF_RUNTIME " + strconv.Itoa(q.EFRuntime)
	}
	knn += "]"

	pre := buildTagFilters(q.Filters)
	if pre == "" {
		return "*=>" + knn
	}
	return "(" + pre + ")=>" + knn
}

// buildTagFilters ANDs one clause per filter; values inside a clause are ORed.
func buildTagFilters(filters []db.TagFilter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if clause := tagClause(f.Field, f.Values); clause != "" {
			parts = append(parts, clause)
		}
	}
	return strings.Join(parts, " ")
}

func tagClause(field string, values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		escaped = append(escaped, tagEscaper.Replace(v))
	}
	if len(escaped) == 0 {
		return ""
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

// buildTextQuery renders
//
//	(@f1:{t1|t2|whole\ query}) | (@f2:{...}) | (@t1|t2:(%term1%|term2))
//
// Terms shorter than db.MinFuzzyTermLength are matched exactly.
func buildTextQuery(q *db.TextQuery) string {
	terms := db.QueryTerms(q.Query)
	if len(terms) == 0 {
		return ""
	}

	var clauses []string

	if len(q.ExactFields) > 0 {
		tagValues := append([]string{}, terms...)
		if whole := strings.Join(strings.Fields(q.Query), " "); strings.Contains(whole, " ") {
			tagValues = append(tagValues, whole)
		}
		for _, f := range q.ExactFields {
			clauses = append(clauses, "("+tagClause(f, tagValues)+")")
		}
	}

	if len(q.FuzzyFields) > 0 {
		fuzzy := make([]string, len(terms))
		for i, t := range terms {
			fuzzy[i] = fuzzyTerm(t, q.FuzzyMaxEdits)
		}
		clauses = append(clauses, fmt.Sprintf("(@%s:(%s))",
			strings.Join(q.FuzzyFields, "|"), strings.Join(fuzzy, "|")))
	}

	return strings.Join(clauses, " | ")
}

func fuzzyTerm(term string, edits int) string {
	if edits <= 0 || len(term) < db.MinFuzzyTermLength {
		return escapeQuery(term)
	}
	edits = min(edits, 3)
	marks := strings.Repeat("%", edits)
	return marks + escapeQuery(term) + marks
}

// --- Result parsing ---

func parseKNNResult(raw []rueidis.RedisMessage, scoreField string) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		}

		if scoreStr, ok := entry.Fields[scoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = min(1, max(0, 1.0-d)) // cosine distance → similarity, clamped to [0,1]
			}
			delete(entry.Fields, scoreField)
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseScoredResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
