package mode

import (
	"fmt"
	"strings"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// Mode is the retrieval strategy.
type Mode string

// Search mode constants.
const (
	Keyword Mode = "keyword"
	Vector  Mode = "vector"
	// Hybrid fuses keyword and vector results.
	Hybrid Mode = "hybrid"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Keyword || m == Vector || m == Hybrid
}

// Parse maps a caller-supplied search type to a Mode.
// Empty input selects Hybrid; matching is case-insensitive.
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Hybrid, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q (want keyword, vector or hybrid)", domain.ErrUnsupportedSearchMode, s)
	}
	return m, nil
}
