package preprocess

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionary []byte

// Entry is one dictionary abbreviation.
type Entry struct {
	Abbreviation string `yaml:"abbreviation"`
	Expansion    string `yaml:"expansion"`
	Category     string `yaml:"category"`
}

type dictionaryFile struct {
	Abbreviations []Entry `yaml:"abbreviations"`
}

// DefaultEntries returns the built-in IT abbreviation dictionary.
func DefaultEntries() []Entry {
	entries, err := ParseDictionary(defaultDictionary)
	if err != nil {
		panic(fmt.Sprintf("preprocess: embedded dictionary: %v", err))
	}
	return entries
}

// LoadDictionary reads a dictionary file in the same YAML layout as the embedded one.
func LoadDictionary(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	entries, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return entries, nil
}

// ParseDictionary decodes and validates dictionary YAML.
// Abbreviations must be unique ignoring case.
func ParseDictionary(data []byte) ([]Entry, error) {
	var f dictionaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if len(f.Abbreviations) == 0 {
		return nil, fmt.Errorf("parse dictionary: no abbreviations")
	}

	seen := make(map[string]struct{}, len(f.Abbreviations))
	for i, e := range f.Abbreviations {
		if strings.TrimSpace(e.Abbreviation) == "" || strings.TrimSpace(e.Expansion) == "" {
			return nil, fmt.Errorf("parse dictionary: entry %d: abbreviation and expansion are required", i)
		}
		k := strings.ToLower(e.Abbreviation)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("parse dictionary: duplicate abbreviation %q", e.Abbreviation)
		}
		seen[k] = struct{}{}
	}
	return f.Abbreviations, nil
}

// compiledEntry pairs an entry with its whole-word matcher.
type compiledEntry struct {
	Entry
	re *regexp.Regexp
}

// compile orders entries longest key first. Equal lengths keep dictionary order.
func compile(entries []Entry) []compiledEntry {
	out := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, compiledEntry{
			Entry: e,
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(e.Abbreviation) + `\b`),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Abbreviation) > len(out[j].Abbreviation)
	})
	return out
}
