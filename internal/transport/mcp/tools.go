package mcp

import (
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
)

// SearchInput is the argument of both tools.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the incident search query or question"`
	SearchType string `json:"search_type,omitempty" jsonschema:"keyword, vector or hybrid (default hybrid)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of incidents, default 5"`
	IncidentID string `json:"incident_id,omitempty" jsonschema:"exact incident id filter, vector search only"`
	Category   string `json:"category,omitempty" jsonschema:"exact category filter, vector search only"`
	Status     string `json:"status,omitempty" jsonschema:"exact status filter, vector search only"`
	Priority   string `json:"priority,omitempty" jsonschema:"exact priority filter, vector search only"`
}

func (in SearchInput) toRequest(lim request.Limits) (request.Request, error) {
	m, err := mode.Parse(in.SearchType)
	if err != nil {
		return request.Request{}, err
	}
	return request.NewWithLimits(
		in.Query,
		m,
		in.TopK,
		filter.New(in.IncidentID, in.Category, in.Status, in.Priority),
		lim,
	)
}

// IncidentOutput is one ranked incident.
type IncidentOutput struct {
	IncidentID      string  `json:"incident_id" jsonschema:"incident identifier"`
	Summary         string  `json:"summary" jsonschema:"one-line incident summary"`
	Score           float64 `json:"score" jsonschema:"raw engine score, or fused 0-1 score in hybrid mode"`
	MatchType       string  `json:"match_type" jsonschema:"engine that produced the result"`
	Status          string  `json:"status,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	Category        string  `json:"category,omitempty"`
	RootCause       string  `json:"root_cause,omitempty"`
	ResolutionSteps string  `json:"resolution_steps,omitempty"`
}

// SearchOutput is the structured result of search_incidents.
type SearchOutput struct {
	SearchOptimized string           `json:"search_optimized" jsonschema:"query after abbreviation expansion"`
	Results         []IncidentOutput `json:"results" jsonschema:"ranked incidents, best first"`
	TraceID         string           `json:"trace_id"`
}

// AskOutput is the structured result of ask_incidents.
type AskOutput struct {
	Answer          string                    `json:"answer" jsonschema:"generated answer"`
	Incidents       []IncidentOutput          `json:"incidents" jsonschema:"incidents used as context"`
	Recommendations *answeruc.Recommendations `json:"recommendations,omitempty"`
	Model           string                    `json:"model"`
	TraceID         string                    `json:"trace_id"`
}

func searchOutputFrom(resp *result.Response) SearchOutput {
	return SearchOutput{
		SearchOptimized: resp.Query.SearchOptimized,
		Results:         incidentsFrom(resp.Results),
		TraceID:         resp.Trace.ID,
	}
}

func askOutputFrom(res *answeruc.Result) AskOutput {
	return AskOutput{
		Answer:          res.Answer,
		Incidents:       incidentsFrom(res.RelevantIncidents),
		Recommendations: res.Recommendations,
		Model:           res.Metadata.Model,
		TraceID:         res.Metadata.TraceID,
	}
}

func incidentsFrom(ranked []result.Ranked) []IncidentOutput {
	out := make([]IncidentOutput, len(ranked))
	for i, r := range ranked {
		out[i] = IncidentOutput{
			IncidentID:      r.RecordID,
			Summary:         r.Summary,
			Score:           r.Score,
			MatchType:       string(r.MatchType),
			Status:          r.Fields.Status,
			Priority:        r.Fields.Priority,
			Category:        r.Fields.Category,
			RootCause:       r.Fields.RootCause,
			ResolutionSteps: r.Fields.ResolutionSteps,
		}
	}
	return out
}
