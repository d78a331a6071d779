package chi

import (
	"time"
	"unicode/utf8"

	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

// maxContentChars bounds the content echoed back per result.
const maxContentChars = 500

// FiltersBody narrows a search to exact tag values.
type FiltersBody struct {
	IncidentID string `json:"incidentId,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

func (f *FiltersBody) toDomain() filter.Filters {
	if f == nil {
		return filter.Filters{}
	}
	return filter.New(f.IncidentID, f.Category, f.Status, f.Priority)
}

// SearchBody is the body of POST /api/search and POST /api/query.
type SearchBody struct {
	Query      string       `json:"query"`
	SearchType string       `json:"searchType,omitempty"`
	TopK       int          `json:"topK,omitempty"`
	Filters    *FiltersBody `json:"filters,omitempty"`
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Q          string
	SearchType *string
	TopK       *int
	IncidentID *string
	Category   *string
	Status     *string
	Priority   *string
}

// SearchResultItem is one ranked incident.
type SearchResultItem struct {
	RecordID        string  `json:"recordId"`
	Summary         string  `json:"summary"`
	Description     string  `json:"description"`
	Content         string  `json:"content"`
	Score           float64 `json:"score"`
	MatchType       string  `json:"matchType"`
	Status          string  `json:"status,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	Category        string  `json:"category,omitempty"`
	RootCause       string  `json:"rootCause,omitempty"`
	ResolutionSteps string  `json:"resolutionSteps,omitempty"`
	CreatedDate     string  `json:"createdDate,omitempty"`
	ResolvedDate    string  `json:"resolvedDate,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query            string                 `json:"query"`
	SearchOptimized  string                 `json:"searchOptimized"`
	Results          []SearchResultItem     `json:"results"`
	SearchType       string                 `json:"searchType"`
	ResultCount      int                    `json:"resultCount"`
	ProcessingTimeMs int64                  `json:"processingTimeMs"`
	TraceID          string                 `json:"traceId"`
	Expansions       []preprocess.Expansion `json:"expansions"`
}

// QueryMetadata describes how an answer was produced.
type QueryMetadata struct {
	SearchMethod     string    `json:"searchMethod"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	Model            string    `json:"model"`
	Timestamp        time.Time `json:"timestamp"`
	TraceID          string    `json:"traceId"`
}

// QueryResponse is the body of POST /api/query.
type QueryResponse struct {
	Query             string                    `json:"query"`
	Answer            string                    `json:"answer"`
	RelevantIncidents []SearchResultItem        `json:"relevantIncidents"`
	Recommendations   *answeruc.Recommendations `json:"recommendations,omitempty"`
	Metadata          QueryMetadata             `json:"metadata"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalIncidents int              `json:"totalIncidents"`
	IndexName      string           `json:"indexName"`
	KeyPrefix      string           `json:"keyPrefix"`
	Weights        searchuc.Weights `json:"weights"`
}

// WeightsResponse is the body of GET and PUT /api/weights.
type WeightsResponse struct {
	searchuc.Weights
	Warning string `json:"warning,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResponseFrom(resp *result.Response) SearchResponse {
	expansions := resp.Query.Expansions
	if expansions == nil {
		expansions = []preprocess.Expansion{}
	}
	items := itemsFrom(resp.Results)
	return SearchResponse{
		Query:            resp.Query.Original,
		SearchOptimized:  resp.Query.SearchOptimized,
		Results:          items,
		SearchType:       string(resp.Mode),
		ResultCount:      len(items),
		ProcessingTimeMs: resp.Trace.Elapsed.Milliseconds(),
		TraceID:          resp.Trace.ID,
		Expansions:       expansions,
	}
}

func queryResponseFrom(res *answeruc.Result) QueryResponse {
	return QueryResponse{
		Query:             res.Query,
		Answer:            res.Answer,
		RelevantIncidents: itemsFrom(res.RelevantIncidents),
		Recommendations:   res.Recommendations,
		Metadata: QueryMetadata{
			SearchMethod:     string(res.Metadata.SearchMethod),
			ProcessingTimeMs: res.Metadata.ProcessingTime.Milliseconds(),
			Model:            res.Metadata.Model,
			Timestamp:        res.Metadata.Timestamp,
			TraceID:          res.Metadata.TraceID,
		},
	}
}

func itemsFrom(ranked []result.Ranked) []SearchResultItem {
	items := make([]SearchResultItem, len(ranked))
	for i, r := range ranked {
		items[i] = SearchResultItem{
			RecordID:        r.RecordID,
			Summary:         r.Summary,
			Description:     r.Description,
			Content:         truncate(r.Content, maxContentChars),
			Score:           r.Score,
			MatchType:       string(r.MatchType),
			Status:          r.Fields.Status,
			Priority:        r.Fields.Priority,
			Category:        r.Fields.Category,
			RootCause:       r.Fields.RootCause,
			ResolutionSteps: r.Fields.ResolutionSteps,
			CreatedDate:     r.Fields.CreatedDate,
			ResolvedDate:    r.Fields.ResolvedDate,
		}
	}
	return items
}

// truncate cuts s to n runes and marks the cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
