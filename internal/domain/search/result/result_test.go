package result

import (
	"testing"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
)

func TestFromCandidate(t *testing.T) {
	c := Candidate{
		RecordID:    "INC001",
		Summary:     "VPN drops",
		Description: "desc",
		Content:     "content",
		RawScore:    3.2,
		Engine:      mode.Keyword,
		Fields:      incident.Fields{Status: "Open"},
	}

	r := FromCandidate(c)
	if r.RecordID != "INC001" || r.Summary != "VPN drops" || r.Content != "content" {
		t.Errorf("display fields not copied: %+v", r)
	}
	if r.Score != 3.2 {
		t.Errorf("Score = %f, want raw score 3.2", r.Score)
	}
	if r.MatchType != mode.Keyword {
		t.Errorf("MatchType = %q, want keyword", r.MatchType)
	}
	if r.Fields.Status != "Open" {
		t.Errorf("Fields = %+v", r.Fields)
	}
}
