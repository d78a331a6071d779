package incident

import (
	"fmt"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

// Hash field names of a stored incident.
const (
	FieldIncidentID      = "incident_id"
	FieldSummary         = "summary"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldCategory        = "category"
	FieldSubcategory     = "subcategory"
	FieldAssignee        = "assignee"
	FieldReporter        = "reporter"
	FieldTeam            = "team"
	FieldImpact          = "impact"
	FieldUrgency         = "urgency"
	FieldEnvironment     = "environment"
	FieldComponent       = "component"
	FieldRootCause       = "root_cause"
	FieldResolutionSteps = "resolution_steps"
	FieldWorkNotes       = "work_notes"
	FieldCreatedDate     = "created_date"
	FieldResolvedDate    = "resolved_date"
	FieldSearchableText  = "searchable_text"
	FieldVector          = "vector"
)

// ExactFields are the identifier-like fields matched as whole values.
var ExactFields = []string{
	FieldIncidentID, FieldStatus, FieldPriority, FieldCategory, FieldSubcategory,
	FieldUrgency, FieldImpact, FieldAssignee, FieldReporter, FieldTeam,
}

// FuzzyFields are the free-text fields matched with typo tolerance.
var FuzzyFields = []string{
	FieldSummary, FieldDescription, FieldRootCause,
	FieldResolutionSteps, FieldWorkNotes, FieldSearchableText,
}

// ReturnFields are loaded with every search hit. The vector is never returned.
var ReturnFields = []string{
	FieldIncidentID, FieldSummary, FieldDescription, FieldSearchableText,
	FieldStatus, FieldPriority, FieldCategory, FieldSubcategory,
	FieldAssignee, FieldReporter, FieldTeam, FieldImpact, FieldUrgency,
	FieldEnvironment, FieldComponent, FieldRootCause, FieldResolutionSteps,
	FieldCreatedDate, FieldResolvedDate,
}

// HNSWConfig holds HNSW build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Schema names the index and key space incidents live in.
type Schema struct {
	IndexName  string
	KeyPrefix  string
	Dimensions int
	HNSW       HNSWConfig
}

// Key returns the hash key of an incident.
func (s Schema) Key(incidentID string) string {
	return s.KeyPrefix + incidentID
}

// Definition builds the FT index over incident hashes.
func (s Schema) Definition() (*db.IndexDefinition, error) {
	if s.Dimensions <= 0 {
		return nil, fmt.Errorf("index %s: vector dimensions must be positive, got %d", s.IndexName, s.Dimensions)
	}
	return db.NewIndex(s.IndexName, s.KeyPrefix).
		Tag(ExactFields...).
		Tag(FieldEnvironment, FieldComponent).
		Text(FuzzyFields...).
		Vector(FieldVector, db.VectorParams{Dim: s.Dimensions, M: s.HNSW.M, EFConstruct: s.HNSW.EFConstruct}).
		Build()
}
