package search

import "github.com/ashokkumar81090/Hackathon/internal/domain/search/result"

// Policy post-filters fused hybrid results.
type Policy interface {
	Name() string
	Apply(results []result.Ranked) []result.Ranked
}

// StatusPolicy keeps only incidents with a proven resolution (Resolved or Closed).
// Hybrid mode applies it unconditionally, whatever status filter the caller sent.
type StatusPolicy struct{}

// Name identifies the policy in logs.
func (StatusPolicy) Name() string { return "resolved-or-closed" }

// Apply filters in place and preserves order.
func (StatusPolicy) Apply(results []result.Ranked) []result.Ranked {
	kept := results[:0]
	for _, r := range results {
		if r.Fields.IsResolved() {
			kept = append(kept, r)
		}
	}
	return kept
}
