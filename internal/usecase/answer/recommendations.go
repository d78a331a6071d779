package answer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Recommendation priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

const defaultRecommendationSummary = "Analysis of resolved incidents"

// Recommendations is structured guidance distilled from resolved incidents.
type Recommendations struct {
	Summary            string   `json:"summary"`
	KeySteps           []string `json:"keySteps"`
	BestPractices      []string `json:"bestPractices"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
	Priority           string   `json:"priority"`
}

var (
	openFence  = regexp.MustCompile("```json\\s*")
	closeFence = regexp.MustCompile("```\\s*$")
)

// parseRecommendations decodes a model reply. Markdown fences are stripped,
// non-list fields become empty lists and an unknown priority becomes Medium.
func parseRecommendations(raw string) (Recommendations, error) {
	cleaned := strings.TrimSpace(closeFence.ReplaceAllString(openFence.ReplaceAllString(raw, ""), ""))

	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return Recommendations{}, fmt.Errorf("decode recommendations: %w", err)
	}

	rec := Recommendations{
		Summary:            defaultRecommendationSummary,
		KeySteps:           stringList(m["keySteps"]),
		BestPractices:      stringList(m["bestPractices"]),
		PreventiveMeasures: stringList(m["preventiveMeasures"]),
		Priority:           PriorityMedium,
	}
	if s, ok := m["summary"].(string); ok && s != "" {
		rec.Summary = s
	}
	if p, ok := m["priority"].(string); ok {
		switch p {
		case PriorityHigh, PriorityMedium, PriorityLow:
			rec.Priority = p
		}
	}
	return rec, nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case string:
			out = append(out, x)
		case nil:
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}
