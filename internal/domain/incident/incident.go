// Package incident holds the IT incident record and its derived searchable text.
package incident

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// Status values that mark an incident as finished.
const (
	StatusResolved = "Resolved"
	StatusClosed   = "Closed"
)

// notAvailable fills absent optional fields in the searchable text.
const notAvailable = "N/A"

// Fields is the typed sparse metadata carried alongside a search result.
// All fields are optional.
type Fields struct {
	Status          string `json:"status,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Category        string `json:"category,omitempty"`
	Subcategory     string `json:"subcategory,omitempty"`
	RootCause       string `json:"rootCause,omitempty"`
	ResolutionSteps string `json:"resolutionSteps,omitempty"`
	Assignee        string `json:"assignee,omitempty"`
	Reporter        string `json:"reporter,omitempty"`
	Team            string `json:"team,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Urgency         string `json:"urgency,omitempty"`
	Environment     string `json:"environment,omitempty"`
	Component       string `json:"component,omitempty"`
	CreatedDate     string `json:"createdDate,omitempty"`
	ResolvedDate    string `json:"resolvedDate,omitempty"`
}

// IsResolved reports whether Status is Resolved or Closed (case-insensitive).
func (f Fields) IsResolved() bool {
	s := strings.TrimSpace(f.Status)
	return strings.EqualFold(s, StatusResolved) || strings.EqualFold(s, StatusClosed)
}

// ResolutionTime returns ResolvedDate - CreatedDate when both parse and the span is non-negative.
func (f Fields) ResolutionTime() (time.Duration, bool) {
	created, ok := parseDate(f.CreatedDate)
	if !ok {
		return 0, false
	}
	resolved, ok := parseDate(f.ResolvedDate)
	if !ok || resolved.Before(created) {
		return 0, false
	}
	return resolved.Sub(created), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Incident is an IT incident record as ingested.
type Incident struct {
	IncidentID  string `json:"incidentId"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	WorkNotes   string `json:"workNotes,omitempty"`
	Fields
}

// Validate checks the required fields.
func (i Incident) Validate() error {
	var missing []string
	if strings.TrimSpace(i.IncidentID) == "" {
		missing = append(missing, "incidentId")
	}
	if strings.TrimSpace(i.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(i.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidIncident, strings.Join(missing, ", "))
	}
	if strings.ContainsAny(i.IncidentID, " \t\n*?[]") {
		return fmt.Errorf("%w: incidentId %q contains whitespace or glob characters",
			domain.ErrInvalidIncident, i.IncidentID)
	}
	return nil
}

// SearchableText renders the record as the labelled multi-line text that is
// embedded and full-text indexed.
func (i Incident) SearchableText() string {
	lines := []struct{ label, value string }{
		{"Incident ID", i.IncidentID},
		{"Summary", i.Summary},
		{"Description", i.Description},
		{"Status", i.Status},
		{"Priority", i.Priority},
		{"Category", i.Category},
		{"Assignee", i.Assignee},
		{"Reporter", i.Reporter},
		{"Created Date", i.CreatedDate},
		{"Resolved Date", i.ResolvedDate},
		{"Resolution Steps", i.ResolutionSteps},
		{"Root Cause", i.RootCause},
		{"Impact", i.Impact},
		{"Urgency", i.Urgency},
		{"Environment", i.Environment},
		{"Component", i.Component},
		{"Team", i.Team},
	}

	var b strings.Builder
	for n, l := range lines {
		if n > 0 {
			b.WriteByte('\n')
		}
		v := strings.TrimSpace(l.value)
		if v == "" {
			v = notAvailable
		}
		b.WriteString(l.label)
		b.WriteString(": ")
		b.WriteString(v)
	}
	return b.String()
}
