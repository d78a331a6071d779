package search_test

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"
	"unicode"

	"github.com/ashokkumar81090/Hackathon/internal/db/memory"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
	increpo "github.com/ashokkumar81090/Hackathon/internal/repository/incident"
	searchrepo "github.com/ashokkumar81090/Hackathon/internal/repository/search"
	"github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

const scenarioDims = 64

// bagEmbedder hashes lower-cased words into a fixed-size count vector.
type bagEmbedder struct{}

func (bagEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, scenarioDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%scenarioDims]++
	}
	vec[0] += 0.01
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(words)}, nil
}

var scenarioIncidents = []incident.Incident{
	{
		IncidentID:  "INC001",
		Summary:     "VPN tunnel drops every hour",
		Description: "Remote users on the Virtual Private Network lose the VPN tunnel every hour",
		Fields: incident.Fields{
			Status: "Resolved", Priority: "P2", Category: "Network Issue",
			RootCause: "IKE rekey interval mismatch", ResolutionSteps: "Aligned rekey timers on both gateways",
		},
	},
	{
		IncidentID:  "INC002",
		Summary:     "DNS lookups failing for internal hosts",
		Description: "Internal name resolution fails after the network change window",
		Fields:      incident.Fields{Status: "Closed", Priority: "P1", Category: "Network Issue"},
	},
	{
		IncidentID:  "INC003",
		Summary:     "VPN client crashes on login",
		Description: "The VPN client crashes right after the login prompt",
		Fields:      incident.Fields{Status: "Open", Priority: "P3", Category: "Software"},
	},
	{
		IncidentID:  "INC004",
		Summary:     "Printer jams on floor three",
		Description: "Paper jam reported on the shared printer",
		Fields:      incident.Fields{Status: "Resolved", Priority: "P4", Category: "Hardware"},
	},
	{
		IncidentID:  "INC005",
		Summary:     "Network switch port flapping",
		Description: "Access switch port flaps and users lose network connectivity",
		Fields:      incident.Fields{Status: "In Progress", Priority: "P2", Category: "Network Issue"},
	},
}

func newScenarioService(t *testing.T) *search.Service {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	t.Cleanup(store.Close)

	schema := increpo.Schema{IndexName: "idx:incidents", KeyPrefix: "incident:", Dimensions: scenarioDims}
	repo := increpo.New(store, schema)
	if _, err := repo.EnsureIndex(ctx); err != nil {
		t.Fatalf("ensure index: %v", err)
	}

	emb := bagEmbedder{}
	records := make([]increpo.Record, 0, len(scenarioIncidents))
	for _, inc := range scenarioIncidents {
		res, _ := emb.Embed(ctx, inc.SearchableText())
		records = append(records, increpo.Record{Incident: inc, Vector: res.Embedding})
	}
	if err := repo.SaveBatch(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	ws, err := search.NewWeightStore(search.DefaultWeights)
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	return search.New(
		searchrepo.NewKeyword(store, schema),
		searchrepo.NewVector(store, emb, schema, 0),
		preprocess.New(),
		ws,
		search.Config{},
		nil,
	)
}

func TestScenario_AbbreviationQueryHybrid(t *testing.T) {
	svc := newScenarioService(t)

	req, err := request.New("vpn", mode.Hybrid, 5, filter.Filters{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Query.SearchOptimized != "VPN Virtual Private Network" {
		t.Errorf("search-optimized query = %q", resp.Query.SearchOptimized)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	if resp.Results[0].RecordID != "INC001" {
		t.Errorf("top result = %s, want INC001", resp.Results[0].RecordID)
	}
	for _, r := range resp.Results {
		if !r.Fields.IsResolved() {
			t.Errorf("%s with status %q leaked through hybrid search", r.RecordID, r.Fields.Status)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("%s fused score %v out of range", r.RecordID, r.Score)
		}
	}
}

func TestScenario_VectorCategoryFilter(t *testing.T) {
	svc := newScenarioService(t)

	req, err := request.New("network connectivity problem", mode.Vector, 5, filter.Filters{Category: "Network Issue"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("expected the 3 network incidents, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Fields.Category != "Network Issue" {
			t.Errorf("%s has category %q", r.RecordID, r.Fields.Category)
		}
		if r.MatchType != mode.Vector {
			t.Errorf("%s match type = %q", r.RecordID, r.MatchType)
		}
	}
}

func TestScenario_KeywordIncludesOpenIncidents(t *testing.T) {
	svc := newScenarioService(t)

	req, err := request.New("crashes", mode.Keyword, 5, filter.Filters{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(resp.Results) == 0 || resp.Results[0].RecordID != "INC003" {
		t.Fatalf("expected INC003 first, got %+v", resp.Results)
	}
	if resp.Results[0].Fields.Status != "Open" {
		t.Errorf("status = %q", resp.Results[0].Fields.Status)
	}
}
