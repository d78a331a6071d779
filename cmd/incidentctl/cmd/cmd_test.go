package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashokkumar81090/Hackathon/internal/app"
	"github.com/ashokkumar81090/Hackathon/internal/config"
	"github.com/ashokkumar81090/Hackathon/internal/db/memory"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

const dims = 16

// --- Mocks ---

// wordEmbedder buckets word hashes so texts sharing words are close.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		var h uint32 = 2166136261
		for _, b := range []byte(w) {
			h = (h ^ uint32(b)) * 16777619
		}
		vec[h%dims]++
	}
	vec[0] += 0.01
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
}

type cannedChat struct{}

func (cannedChat) Model() string { return "canned" }

func (cannedChat) Complete(_ context.Context, msgs []domain.ChatMessage) (domain.ChatResult, error) {
	if strings.Contains(msgs[0].Content, "recommendations") {
		return domain.ChatResult{Content: `{"summary":"Restart the spooler","keySteps":["restart spooler"],` +
			`"bestPractices":[],"preventiveMeasures":["monitor queue"],"priority":"Low"}`}, nil
	}
	return domain.ChatResult{Content: "Restart the print spooler service."}, nil
}

// --- Fixture ---

const configYAML = `# test profile
database:
  driver: memory
embedding:
  api_key: ${OPENAI_API_KEY:-}
  dimensions: 16
search:
  vector_weight: 0.6
  keyword_weight: 0.4
logging:
  level: error
`

const incidentsJSON = `[
  {"incidentId":"INC1","summary":"Printer queue stuck","description":"Jobs stay queued on the office printer",
   "status":"Resolved","priority":"P3","category":"Hardware","rootCause":"Spooler hung"},
  {"incidentId":"INC2","summary":"Email sync fails","description":"Outlook stops syncing mail",
   "status":"Open","priority":"P2","category":"Software"},
  {"incidentId":"","summary":"no id"}
]`

type fixture struct {
	dir        string
	configPath string
	opts       app.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	f := &fixture{
		dir:        dir,
		configPath: filepath.Join(dir, "test.yaml"),
		opts:       app.Options{Store: memory.NewStore(), Embedder: wordEmbedder{}, Chat: cannedChat{}},
	}
	require.NoError(t, os.WriteFile(f.configPath, []byte(configYAML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incidents.json"), []byte(incidentsJSON), 0o600))
	return f
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(WithAppOptions(f.opts))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", f.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *fixture) ingest(t *testing.T) {
	t.Helper()
	_, err := f.run(t, "ingest", filepath.Join(f.dir, "incidents.json"))
	require.NoError(t, err)
}

// --- Tests ---

func TestIngest_JSONReport(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "ingest", filepath.Join(f.dir, "incidents.json"), "--batch-size", "1", "-f", "json")
	require.NoError(t, err)

	var rep struct {
		Received int `json:"received"`
		Ingested int `json:"ingested"`
		Batches  int `json:"batches"`
		Skipped  []struct {
			Index int `json:"index"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Received)
	assert.Equal(t, 2, rep.Ingested)
	assert.Equal(t, 2, rep.Batches)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, 2, rep.Skipped[0].Index)
}

func TestIngest_MissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "ingest", filepath.Join(f.dir, "nope.json"))
	assert.ErrorContains(t, err, "read incidents")
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.ingest(t)

	out, err := f.run(t, "stats", "-f", "json")
	require.NoError(t, err)

	var stats struct {
		TotalIncidents int    `json:"totalIncidents"`
		IndexName      string `json:"indexName"`
		Dimensions     int    `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalIncidents)
	assert.Equal(t, "idx:incidents", stats.IndexName)
	assert.Equal(t, dims, stats.Dimensions)
}

func TestSearch_KeywordJSON(t *testing.T) {
	f := newFixture(t)
	f.ingest(t)

	out, err := f.run(t, "search", "outlook", "syncing", "-m", "keyword", "-f", "json")
	require.NoError(t, err)

	var resp struct {
		SearchType string `json:"searchType"`
		Results    []struct {
			RecordID  string `json:"recordId"`
			MatchType string `json:"matchType"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "keyword", resp.SearchType)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "INC2", resp.Results[0].RecordID)
	assert.Equal(t, "keyword", resp.Results[0].MatchType)
}

func TestSearch_HybridExplain(t *testing.T) {
	f := newFixture(t)
	f.ingest(t)

	out, err := f.run(t, "search", "printer", "queue", "--explain")
	require.NoError(t, err)

	assert.Contains(t, out, `Search-optimized: "printer queue"`)
	assert.Contains(t, out, "vector_weight:  0.6")
	assert.Contains(t, out, "keyword engine")
	assert.Contains(t, out, "vector engine")
	assert.Contains(t, out, "Results (hybrid")
	assert.Contains(t, out, "INC1")
	// Hybrid keeps resolved incidents only.
	assert.NotContains(t, out[strings.Index(out, "Results (hybrid"):], "INC2")
}

func TestSearch_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "search", "vpn", "-m", "fuzzy")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSearchMode)

	_, err = f.run(t, "search", "vpn", "-f", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = f.run(t, "search")
	assert.Error(t, err)
}

func TestAsk(t *testing.T) {
	f := newFixture(t)
	f.ingest(t)

	out, err := f.run(t, "ask", "printer", "queue", "stuck")
	require.NoError(t, err)

	assert.Contains(t, out, "Restart the print spooler service.")
	assert.Contains(t, out, "Recommendations (Low priority)")
	assert.Contains(t, out, "  - restart spooler")
	assert.Contains(t, out, "INC1")
}

func TestIndex_CreateAndDrop(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "index", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "Created index idx:incidents")

	out, err = f.run(t, "index", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = f.run(t, "index", "drop")
	require.NoError(t, err)
	assert.Contains(t, out, "Dropped index idx:incidents")
}

func TestWeights_SetThenGet(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "weights", "set", "0.7", "0.3")
	require.NoError(t, err)

	out, err := f.run(t, "weights", "get", "-f", "json")
	require.NoError(t, err)
	var w struct {
		Vector  float64 `json:"vectorWeight"`
		Keyword float64 `json:"keywordWeight"`
		Warning string  `json:"warning"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.InDelta(t, 0.7, w.Vector, 1e-9)
	assert.InDelta(t, 0.3, w.Keyword, 1e-9)
	assert.Empty(t, w.Warning)

	data, err := os.ReadFile(f.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "${OPENAI_API_KEY:-}")
	assert.Contains(t, string(data), "driver: memory")
}

func TestWeights_SetRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "weights", "set", "1.5", "0")
	require.Error(t, err)

	cfg, err := config.LoadFile(f.configPath)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cfg.Search.VectorWeight, 1e-9)
}

func TestWeights_SetAddsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: memory\n"), 0o600))

	require.NoError(t, writeWeights(path, weightsOf(0.5, 0.5)))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.Search.VectorWeight, 1e-9)
	assert.InDelta(t, 0.5, cfg.Search.KeywordWeight, 1e-9)
}

func TestVersion(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "incidentctl dev"))
}

func weightsOf(vector, keyword float64) searchuc.Weights {
	return searchuc.Weights{Vector: vector, Keyword: keyword}
}
