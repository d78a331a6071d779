package search

import (
	"math"
	"testing"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

func norm(id string, score float64, content string) result.Normalized {
	return result.Normalized{
		Candidate: result.Candidate{RecordID: id, Summary: "summary " + id, Content: content},
		NormScore: score,
	}
}

func TestFuse_ScoreAdditivity(t *testing.T) {
	w := Weights{Vector: 0.6, Keyword: 0.4}
	vector := []result.Normalized{norm("X", 0.8, "x"), norm("V", 1, "v")}
	keyword := []result.Normalized{norm("X", 0.5, "x"), norm("K", 1, "k")}

	got := Fuse(keyword, vector, w)
	if len(got) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(got))
	}

	scores := map[string]float64{}
	for _, r := range got {
		scores[r.RecordID] = r.Score
		if r.MatchType != mode.Hybrid {
			t.Errorf("%s match type = %q", r.RecordID, r.MatchType)
		}
	}
	if math.Abs(scores["X"]-0.68) > 1e-9 {
		t.Errorf("X = %v, want 0.68", scores["X"])
	}
	if scores["V"] != 1*0.6 {
		t.Errorf("V = %v, want exactly 0.6", scores["V"])
	}
	if scores["K"] != 1*0.4 {
		t.Errorf("K = %v, want exactly 0.4", scores["K"])
	}
}

func TestFuse_InsertionOrder(t *testing.T) {
	got := Fuse(
		[]result.Normalized{norm("k1", 1, ""), norm("v1", 1, ""), norm("k2", 0, "")},
		[]result.Normalized{norm("v1", 1, ""), norm("v2", 0.5, "")},
		DefaultWeights,
	)

	want := []string{"v1", "v2", "k1", "k2"}
	for i, id := range want {
		if got[i].RecordID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestFuse_PrefersLongerContent(t *testing.T) {
	v := norm("X", 1, "short")
	v.Fields = incident.Fields{Status: "Resolved"}
	k := norm("X", 1, "a much longer keyword snippet")
	k.Summary = "keyword summary"
	k.Fields = incident.Fields{Status: "Open"}

	got := Fuse([]result.Normalized{k}, []result.Normalized{v}, DefaultWeights)
	if got[0].Content != "a much longer keyword snippet" {
		t.Errorf("content = %q", got[0].Content)
	}
	if got[0].Summary != "summary X" || got[0].Fields.Status != "Resolved" {
		t.Errorf("display fields must stay from the vector entry, got %+v", got[0])
	}

	got = Fuse([]result.Normalized{norm("Y", 1, "s")}, []result.Normalized{norm("Y", 1, "longer")}, DefaultWeights)
	if got[0].Content != "longer" {
		t.Errorf("shorter keyword content must not replace, got %q", got[0].Content)
	}
}

func TestFuse_DuplicatesCountOnce(t *testing.T) {
	w := Weights{Vector: 0.5, Keyword: 0.5}
	got := Fuse(
		[]result.Normalized{norm("A", 1, ""), norm("A", 1, "")},
		[]result.Normalized{norm("A", 1, ""), norm("A", 1, "")},
		w,
	)
	if len(got) != 1 || got[0].Score != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestFuse_Empty(t *testing.T) {
	if got := Fuse(nil, nil, DefaultWeights); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestStatusPolicy(t *testing.T) {
	in := []result.Ranked{
		{RecordID: "a", Fields: incident.Fields{Status: "Resolved"}},
		{RecordID: "b", Fields: incident.Fields{Status: "Open"}},
		{RecordID: "c", Fields: incident.Fields{Status: "closed"}},
		{RecordID: "d"},
		{RecordID: "e", Fields: incident.Fields{Status: " Closed "}},
	}

	got := StatusPolicy{}.Apply(in)
	if want := []string{"a", "c", "e"}; len(got) != len(want) || got[0].RecordID != "a" || got[1].RecordID != "c" || got[2].RecordID != "e" {
		t.Fatalf("kept %v, want %v", ids(got), want)
	}
	if (StatusPolicy{}).Name() == "" {
		t.Error("policy needs a name")
	}
}

func ids(rs []result.Ranked) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].RecordID
	}
	return out
}
