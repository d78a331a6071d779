package answer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

const qaSystemPrompt = `You are an expert IT support assistant helping users find solutions to technical incidents.

Your role is to:
1. Analyze the user's question about IT incidents
2. Review the provided relevant incident records
3. Provide accurate, helpful answers based on the incident data
4. Include specific incident IDs, root causes, and resolution steps when relevant
5. If the provided incidents don't fully answer the question, acknowledge this

Guidelines:
- Be concise but thorough
- Reference specific incident IDs when citing information
- Prioritize resolved incidents with clear resolution steps
- If multiple similar incidents exist, mention patterns or common causes
- Suggest preventive measures when applicable`

const qaUserTemplate = `User Question: %s

Relevant Incidents:
%s

Based on the incidents above, please answer the user's question. Be specific and cite incident IDs when referencing information.`

const recommendationsSystemPrompt = `You are an expert IT operations analyst providing actionable recommendations for resolving technical incidents.

Your role is to:
1. Analyze the resolution patterns from provided resolved incidents
2. Identify common causes, solutions, and best practices
3. Provide structured recommendations for IT teams to resolve similar issues
4. Suggest preventive measures to avoid future occurrences

Guidelines:
- Focus on practical, actionable steps
- Identify patterns across multiple incidents when available
- Prioritize proven solutions that have worked before
- Suggest monitoring and preventive measures
- Be specific about tools, commands, or procedures to follow

Always return your response as a valid JSON object with keys: summary, keySteps (array), bestPractices (array), preventiveMeasures (array), and priority.

Important: Return ONLY the JSON object, no markdown formatting, no explanations, just pure JSON.`

const recommendationsUserTemplate = `User Query: %s

Resolved Incidents for Analysis:
%s

Based on these resolved incidents, provide structured recommendations for IT teams to resolve similar issues. Focus on practical steps, best practices, and preventive measures.`

// NoIncidentsAnswer is returned without calling the model when retrieval finds nothing.
const NoIncidentsAnswer = "I couldn't find any relevant incidents in the database to answer your question. " +
	"Please try rephrasing your query or check if incidents have been ingested."

func orNA(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// formatContext renders retrieved incidents for the QA prompt.
func formatContext(results []result.Ranked) string {
	if len(results) == 0 {
		return "No relevant incidents found."
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "\n--- Incident %d ---\n", i+1)
		fmt.Fprintf(&b, "Incident ID: %s\nSummary: %s\n", r.RecordID, r.Summary)
		fmt.Fprintf(&b, "Status: %s\nPriority: %s\nCategory: %s",
			orNA(r.Fields.Status, "N/A"), orNA(r.Fields.Priority, "N/A"), orNA(r.Fields.Category, "N/A"))
		if r.Description != "" {
			fmt.Fprintf(&b, "\nDescription: %s", r.Description)
		}
		if r.Fields.RootCause != "" {
			fmt.Fprintf(&b, "\nRoot Cause: %s", r.Fields.RootCause)
		}
		if r.Fields.ResolutionSteps != "" {
			fmt.Fprintf(&b, "\nResolution Steps: %s", r.Fields.ResolutionSteps)
		}
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n")
}

// formatResolved renders resolved incidents for the recommendations prompt,
// with the resolution time in whole hours when both dates parse.
func formatResolved(results []result.Ranked) string {
	if len(results) == 0 {
		return "No resolved incidents available for analysis."
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		parts := []string{
			fmt.Sprintf("Resolved Incident %d: %s", i+1, r.RecordID),
			"Summary: " + r.Summary,
			"Priority: " + orNA(r.Fields.Priority, "Unknown"),
			"Category: " + orNA(r.Fields.Category, "Unknown"),
		}
		if r.Description != "" {
			parts = append(parts, "Description: "+r.Description)
		}
		if r.Fields.RootCause != "" {
			parts = append(parts, "Root Cause: "+r.Fields.RootCause)
		}
		if r.Fields.ResolutionSteps != "" {
			parts = append(parts, "Resolution Steps: "+r.Fields.ResolutionSteps)
		}
		if d, ok := r.Fields.ResolutionTime(); ok {
			parts = append(parts, fmt.Sprintf("Resolution Time: %d hours", int(math.Round(d.Hours()))))
		}
		blocks[i] = strings.Join(parts, "\n")
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
