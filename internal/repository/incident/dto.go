package incident

import (
	"strings"

	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

// toHash flattens an incident and its embedding for HSET. Blank optional fields are omitted.
func toHash(inc *incident.Incident, vector []float32) map[string]string {
	m := map[string]string{
		FieldIncidentID:     inc.IncidentID,
		FieldSummary:        inc.Summary,
		FieldDescription:    inc.Description,
		FieldSearchableText: inc.SearchableText(),
		FieldVector:         db.VectorToBytes(vector),
	}
	optional := map[string]string{
		FieldStatus:          inc.Status,
		FieldPriority:        inc.Priority,
		FieldCategory:        inc.Category,
		FieldSubcategory:     inc.Subcategory,
		FieldAssignee:        inc.Assignee,
		FieldReporter:        inc.Reporter,
		FieldTeam:            inc.Team,
		FieldImpact:          inc.Impact,
		FieldUrgency:         inc.Urgency,
		FieldEnvironment:     inc.Environment,
		FieldComponent:       inc.Component,
		FieldRootCause:       inc.RootCause,
		FieldResolutionSteps: inc.ResolutionSteps,
		FieldWorkNotes:       inc.WorkNotes,
		FieldCreatedDate:     inc.CreatedDate,
		FieldResolvedDate:    inc.ResolvedDate,
	}
	for k, v := range optional {
		if v = strings.TrimSpace(v); v != "" {
			m[k] = v
		}
	}
	return m
}

// fromHash rebuilds an incident from an HGETALL map.
func fromHash(m map[string]string) incident.Incident {
	return incident.Incident{
		IncidentID:  m[FieldIncidentID],
		Summary:     m[FieldSummary],
		Description: m[FieldDescription],
		WorkNotes:   m[FieldWorkNotes],
		Fields:      FieldsFromHash(m),
	}
}

// FieldsFromHash extracts the sparse metadata of a stored incident.
func FieldsFromHash(m map[string]string) incident.Fields {
	return incident.Fields{
		Status:          m[FieldStatus],
		Priority:        m[FieldPriority],
		Category:        m[FieldCategory],
		Subcategory:     m[FieldSubcategory],
		RootCause:       m[FieldRootCause],
		ResolutionSteps: m[FieldResolutionSteps],
		Assignee:        m[FieldAssignee],
		Reporter:        m[FieldReporter],
		Team:            m[FieldTeam],
		Impact:          m[FieldImpact],
		Urgency:         m[FieldUrgency],
		Environment:     m[FieldEnvironment],
		Component:       m[FieldComponent],
		CreatedDate:     m[FieldCreatedDate],
		ResolvedDate:    m[FieldResolvedDate],
	}
}

// ToCandidate converts a search hit into an engine candidate.
// Content is the searchable text, falling back to the description.
func (s Schema) ToCandidate(e db.SearchEntry, engine mode.Mode) result.Candidate {
	id := e.Fields[FieldIncidentID]
	if id == "" {
		id = strings.TrimPrefix(e.Key, s.KeyPrefix)
	}
	content := e.Fields[FieldSearchableText]
	if content == "" {
		content = e.Fields[FieldDescription]
	}
	return result.Candidate{
		RecordID:    id,
		Summary:     e.Fields[FieldSummary],
		Description: e.Fields[FieldDescription],
		Content:     content,
		RawScore:    e.Score,
		Engine:      engine,
		Fields:      FieldsFromHash(e.Fields),
	}
}
