package mode

import (
	"errors"
	"testing"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

func TestIsValid(t *testing.T) {
	valid := []Mode{Hybrid, Vector, Keyword}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "semantic", "fuzzy", "HYBRID"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", Hybrid},
		{"  ", Hybrid},
		{"keyword", Keyword},
		{"VECTOR", Vector},
		{" Hybrid ", Hybrid},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("fuzzy"); !errors.Is(err, domain.ErrUnsupportedSearchMode) {
		t.Errorf("expected ErrUnsupportedSearchMode, got %v", err)
	}
}
