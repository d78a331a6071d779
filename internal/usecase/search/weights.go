package search

import (
	"fmt"
	"math"
	"sync/atomic"
)

// DefaultWeights favour semantic similarity over lexical overlap.
var DefaultWeights = Weights{Vector: 0.6, Keyword: 0.4}

// weightSumTolerance is how far Vector+Keyword may drift from 1 before a warning.
const weightSumTolerance = 0.01

// Weights scale each engine's normalized score in hybrid fusion. They need not sum to 1.
type Weights struct {
	Vector  float64 `json:"vectorWeight" yaml:"vector_weight"`
	Keyword float64 `json:"keywordWeight" yaml:"keyword_weight"`
}

// Validate requires both weights in [0,1].
func (w Weights) Validate() error {
	if !inUnit(w.Vector) {
		return fmt.Errorf("vector weight must be within [0,1], got %v", w.Vector)
	}
	if !inUnit(w.Keyword) {
		return fmt.Errorf("keyword weight must be within [0,1], got %v", w.Keyword)
	}
	return nil
}

func inUnit(v float64) bool { return !math.IsNaN(v) && v >= 0 && v <= 1 }

// SumWarning describes weights that do not sum to 1; empty when they do.
func (w Weights) SumWarning() string {
	sum := w.Vector + w.Keyword
	if math.Abs(sum-1) <= weightSumTolerance {
		return ""
	}
	return fmt.Sprintf("hybrid weights sum to %.3f, not 1: fused scores will not be on a 0-1 scale", sum)
}

// WeightStore holds the process-wide weights. Readers take one snapshot per request;
// writers swap a whole new value, so a fusion never mixes two configurations.
type WeightStore struct {
	p atomic.Pointer[Weights]
}

// NewWeightStore validates and stores the initial weights.
func NewWeightStore(w Weights) (*WeightStore, error) {
	s := &WeightStore{}
	if err := s.Set(w); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the current snapshot.
func (s *WeightStore) Load() Weights {
	if w := s.p.Load(); w != nil {
		return *w
	}
	return DefaultWeights
}

// Set validates and atomically replaces the weights.
func (s *WeightStore) Set(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.p.Store(&w)
	return nil
}
