// Package filter holds the fixed set of exact-match search filters.
package filter

import "strings"

// Filters narrows vector candidates by exact field values.
// Empty values mean "no constraint" and are never sent to an engine.
type Filters struct {
	IncidentID string `json:"incidentId,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// New trims every value; blank values are dropped.
func New(incidentID, category, status, priority string) Filters {
	return Filters{
		IncidentID: strings.TrimSpace(incidentID),
		Category:   strings.TrimSpace(category),
		Status:     strings.TrimSpace(status),
		Priority:   strings.TrimSpace(priority),
	}
}

// Pair is a single non-empty filter.
type Pair struct {
	Key   string
	Value string
}

// Keys for Pair.Key, matching the public request field names.
const (
	KeyIncidentID = "incidentId"
	KeyCategory   = "category"
	KeyStatus     = "status"
	KeyPriority   = "priority"
)

// Pairs returns the non-empty filters in a fixed order.
func (f Filters) Pairs() []Pair {
	all := []Pair{
		{KeyIncidentID, f.IncidentID},
		{KeyCategory, f.Category},
		{KeyStatus, f.Status},
		{KeyPriority, f.Priority},
	}
	out := all[:0]
	for _, p := range all {
		p.Value = strings.TrimSpace(p.Value)
		if p.Value != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool { return len(f.Pairs()) == 0 }
