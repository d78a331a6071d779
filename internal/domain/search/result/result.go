// Package result holds the per-engine, normalized and ranked search result shapes.
package result

import (
	"time"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
)

// Candidate is one hit as returned by a single engine. RawScore is engine-specific.
type Candidate struct {
	RecordID    string
	Summary     string
	Description string
	Content     string
	RawScore    float64
	Engine      mode.Mode
	Fields      incident.Fields
}

// Normalized is a Candidate with its score min-max scaled into [0,1] within its list.
type Normalized struct {
	Candidate
	NormScore float64
}

// Ranked is a final result. MatchType is the engine for single-engine modes and
// always hybrid for fused results.
type Ranked struct {
	RecordID    string          `json:"recordId"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	Score       float64         `json:"score"`
	MatchType   mode.Mode       `json:"matchType"`
	Fields      incident.Fields `json:"fields"`
}

// FromCandidate builds a single-engine Ranked result keeping the raw score.
func FromCandidate(c Candidate) Ranked {
	return Ranked{
		RecordID:    c.RecordID,
		Summary:     c.Summary,
		Description: c.Description,
		Content:     c.Content,
		Score:       c.RawScore,
		MatchType:   c.Engine,
		Fields:      c.Fields,
	}
}

// Trace is per-request timing metadata.
type Trace struct {
	ID              string
	Start           time.Time
	Elapsed         time.Duration
	EmbeddingTokens int // 0 on a cache hit or in keyword mode
}

// Response is the orchestrator output.
type Response struct {
	Query   preprocess.Query
	Mode    mode.Mode
	Results []Ranked
	Trace   Trace
}
