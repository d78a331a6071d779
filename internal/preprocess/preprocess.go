// Package preprocess normalizes free-text incident queries and expands IT
// abbreviations so both keyword and vector retrieval see the short and the
// long form of a term.
package preprocess

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expansion records one abbreviation found in a query.
type Expansion struct {
	Abbreviation string `json:"abbreviation"`
	Expansion    string `json:"expansion"`
	Category     string `json:"category"`
}

// Query is the immutable result of preprocessing a raw query.
type Query struct {
	Original        string      `json:"original"`
	Normalized      string      `json:"normalized"`
	Display         string      `json:"display"`
	SearchOptimized string      `json:"searchOptimized"`
	Expansions      []Expansion `json:"expansions"`
}

// HasExpansions reports whether any abbreviation was found.
func (q Query) HasExpansions() bool { return len(q.Expansions) > 0 }

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithoutExpansion disables abbreviation expansion.
func WithoutExpansion() Option {
	return func(p *Preprocessor) { p.expand = false }
}

// WithoutNormalization only trims the query and keeps inner whitespace runs.
func WithoutNormalization() Option {
	return func(p *Preprocessor) { p.normalize = false }
}

// WithEntries replaces the built-in dictionary.
func WithEntries(entries []Entry) Option {
	return func(p *Preprocessor) { p.entries = entries }
}

// Preprocessor is safe for concurrent use once built.
type Preprocessor struct {
	entries   []Entry
	compiled  []compiledEntry
	expand    bool
	normalize bool
}

// New builds a Preprocessor over the built-in dictionary unless WithEntries is given.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{expand: true, normalize: true}
	for _, opt := range opts {
		opt(p)
	}
	if p.entries == nil {
		p.entries = DefaultEntries()
	}
	p.compiled = compile(p.entries)
	return p
}

// Load builds a Preprocessor from a dictionary file. An empty path means the built-in dictionary.
func Load(path string, opts ...Option) (*Preprocessor, error) {
	if path == "" {
		return New(opts...), nil
	}
	entries, err := LoadDictionary(path)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithEntries(entries))...), nil
}

// Size returns the number of dictionary entries.
func (p *Preprocessor) Size() int { return len(p.entries) }

var whitespace = regexp.MustCompile(`\s+`)

// Normalize trims the query and collapses whitespace runs to a single space.
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Process preprocesses a raw query. It never fails; empty input yields an empty Query.
func (p *Preprocessor) Process(raw string) Query {
	q := Query{Original: raw, Normalized: strings.TrimSpace(raw)}
	if p.normalize {
		q.Normalized = Normalize(raw)
	}
	q.Display = q.Normalized
	q.SearchOptimized = q.Normalized

	if !p.expand || q.Normalized == "" {
		return q
	}

	spans := p.match(q.Normalized)
	if len(spans) == 0 {
		return q
	}

	var display, search strings.Builder
	pos := 0
	seen := make(map[string]struct{}, len(spans))
	for _, s := range spans {
		display.WriteString(q.Normalized[pos:s.start])
		search.WriteString(q.Normalized[pos:s.start])
		display.WriteString(s.entry.Abbreviation + " (" + s.entry.Expansion + ")")
		search.WriteString(s.entry.Abbreviation + " " + s.entry.Expansion)
		pos = s.end

		if _, dup := seen[s.entry.Abbreviation]; dup {
			continue
		}
		seen[s.entry.Abbreviation] = struct{}{}
		q.Expansions = append(q.Expansions, Expansion{
			Abbreviation: s.entry.Abbreviation,
			Expansion:    s.entry.Expansion,
			Category:     s.entry.Category,
		})
	}
	display.WriteString(q.Normalized[pos:])
	search.WriteString(q.Normalized[pos:])

	q.Display = display.String()
	q.SearchOptimized = search.String()
	return q
}

type span struct {
	start, end int
	entry      *compiledEntry
}

// match claims non-overlapping spans in two passes. The first claims occurrences
// already followed by their own expansion (span covers the expansion too), the
// second claims bare occurrences. Both passes go longest key first.
func (p *Preprocessor) match(text string) []span {
	var claimed []span
	free := func(start, end int) bool {
		for _, c := range claimed {
			if start < c.end && c.start < end {
				return false
			}
		}
		return true
	}

	for i := range p.compiled {
		e := &p.compiled[i]
		for _, loc := range e.re.FindAllStringIndex(text, -1) {
			end, ok := expandedEnd(text, loc[1], e.Expansion)
			if ok && free(loc[0], end) {
				claimed = append(claimed, span{start: loc[0], end: end, entry: e})
			}
		}
	}
	for i := range p.compiled {
		e := &p.compiled[i]
		for _, loc := range e.re.FindAllStringIndex(text, -1) {
			if free(loc[0], loc[1]) {
				claimed = append(claimed, span{start: loc[0], end: loc[1], entry: e})
			}
		}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })
	return claimed
}

// expandedEnd reports where an occurrence ending at pos ends when it is
// immediately followed by " <expansion>" or " (<expansion>)".
func expandedEnd(text string, pos int, expansion string) (int, bool) {
	rest := text[pos:]
	for _, form := range []string{" " + expansion, " (" + expansion + ")"} {
		if len(rest) < len(form) || !strings.EqualFold(rest[:len(form)], form) {
			continue
		}
		end := pos + len(form)
		if strings.HasSuffix(form, ")") || !wordCharAt(text, end) {
			return end, true
		}
	}
	return 0, false
}

func wordCharAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Summary renders a human-readable preprocessing report.
func Summary(q Query) string {
	parts := []string{fmt.Sprintf("Original: \"%s\"", q.Original)}

	if q.HasExpansions() {
		parts = append(parts, fmt.Sprintf("\nAbbreviations expanded (%d):", len(q.Expansions)))
		for _, e := range q.Expansions {
			parts = append(parts, fmt.Sprintf("  • %s → %s [%s]", e.Abbreviation, e.Expansion, e.Category))
		}
	}

	parts = append(parts, fmt.Sprintf("\nSearch-optimized: \"%s\"", q.SearchOptimized))
	return strings.Join(parts, "\n")
}
