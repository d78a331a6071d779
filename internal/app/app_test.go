package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashokkumar81090/Hackathon/internal/config"
	"github.com/ashokkumar81090/Hackathon/internal/db/memory"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	chiTransport "github.com/ashokkumar81090/Hackathon/internal/transport/chi"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

const testDims = 32

// trigramEmbedder hashes character trigrams of each lower-cased word.
type trigramEmbedder struct{}

func (trigramEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, testDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = "^" + w + "$"
		for i := 0; i+3 <= len(w); i++ {
			var h uint32 = 2166136261
			for _, b := range []byte(w[i : i+3]) {
				h = (h ^ uint32(b)) * 16777619
			}
			vec[h%testDims]++
		}
	}
	vec[1] += 0.01
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
}

type stubChat struct {
	mu    sync.Mutex
	calls int
}

func (c *stubChat) Model() string { return "stub-model" }

func (c *stubChat) Complete(_ context.Context, msgs []domain.ChatMessage) (domain.ChatResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if strings.Contains(msgs[0].Content, "recommendations") {
		return domain.ChatResult{Content: "```json\n" +
			`{"summary":"Align rekey timers","keySteps":["check IKE"],"bestPractices":[],"preventiveMeasures":[],"priority":"High"}` +
			"\n```"}, nil
	}
	return domain.ChatResult{Content: "Align the IKE rekey timers on both gateways."}, nil
}

func testConfig() config.Config {
	cfg := config.Config{
		Database:  config.DatabaseConfig{Driver: config.DriverMemory},
		Embedding: config.EmbeddingConfig{Dimensions: testDims},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestApp(t *testing.T) (*App, *stubChat) {
	t.Helper()
	chat := &stubChat{}
	a, err := New(context.Background(), testConfig(), nil, Options{
		Store:    memory.NewStore(),
		Embedder: trigramEmbedder{},
		Chat:     chat,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	_, err = a.Incidents.EnsureIndex(context.Background())
	require.NoError(t, err)
	return a, chat
}

const incidentsJSON = `[
  {"incidentId":"INC101","summary":"VPN tunnel drops every hour","description":"Remote users lose the VPN tunnel hourly",
   "status":"Resolved","priority":"P2","category":"Network Issue","rootCause":"IKE rekey mismatch",
   "resolutionSteps":"Aligned rekey timers","createdDate":"2024-03-01T08:00:00Z","resolvedDate":"2024-03-01T12:00:00Z"},
  {"incidentId":"INC102","summary":"VPN client crashes on login","description":"Client crashes after the login prompt",
   "status":"Open","priority":"P3","category":"Software"},
  {"incidentId":"INC103","summary":"Printer jams on floor three","description":"Paper jam on the shared printer",
   "status":"Closed","priority":"P4","category":"Hardware"},
  {"incidentId":"","summary":"missing id","description":"skipped"}
]`

func call(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestApp_EndToEnd(t *testing.T) {
	a, chat := newTestApp(t)
	h := a.HTTPServer().Handler()

	rr := call(t, h, http.MethodPost, "/api/incidents?batchSize=2", incidentsJSON)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rep ingestuc.Report
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rep))
	assert.Equal(t, 4, rep.Received)
	assert.Equal(t, 3, rep.Ingested)
	assert.Len(t, rep.Skipped, 1)
	assert.Equal(t, 2, rep.Batches)

	rr = call(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var stats chiTransport.StatsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	assert.Equal(t, 3, stats.TotalIncidents)
	assert.Equal(t, searchuc.DefaultWeights, stats.Weights)

	rr = call(t, h, http.MethodPost, "/api/search", `{"query":"vpn drops","searchType":"hybrid"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var sr chiTransport.SearchResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sr))
	require.NotEmpty(t, sr.Results)
	assert.Equal(t, "INC101", sr.Results[0].RecordID)
	for _, r := range sr.Results {
		assert.Contains(t, []string{"Resolved", "Closed"}, r.Status, r.RecordID)
	}
	assert.Contains(t, sr.SearchOptimized, "Virtual Private Network")

	rr = call(t, h, http.MethodPost, "/api/search", `{"query":"crashes","searchType":"keyword"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	sr = chiTransport.SearchResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sr))
	require.NotEmpty(t, sr.Results)
	assert.Equal(t, "INC102", sr.Results[0].RecordID)

	rr = call(t, h, http.MethodPost, "/api/query", `{"query":"why does the vpn drop"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var qr chiTransport.QueryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&qr))
	assert.Equal(t, "Align the IKE rekey timers on both gateways.", qr.Answer)
	assert.Equal(t, "stub-model", qr.Metadata.Model)
	require.NotNil(t, qr.Recommendations)
	assert.Equal(t, "High", qr.Recommendations.Priority)
	assert.Equal(t, 2, chat.calls)

	rr = call(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestApp_EmptyIndexQueryDoesNotCallChat(t *testing.T) {
	a, chat := newTestApp(t)

	rr := call(t, a.HTTPServer().Handler(), http.MethodPost, "/api/query", `{"query":"anything"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Zero(t, chat.calls)
}

func TestApp_WatchWeights(t *testing.T) {
	a, _ := newTestApp(t)

	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: memory\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	armed := make(chan struct{})
	go func() {
		_ = a.WatchWeights(ctx, path,
			config.WithDebounce(50*time.Millisecond), config.WithArmed(func() { close(armed) }))
	}()
	select {
	case <-armed:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watcher never armed")
	}

	body := []byte("database:\n  driver: memory\nsearch:\n  vector_weight: 0.25\n  keyword_weight: 0.75\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	want := searchuc.Weights{Vector: 0.25, Keyword: 0.75}
	assert.Eventually(t, func() bool {
		return a.Weights.Load() == want
	}, 5*time.Second, 20*time.Millisecond)
}

func TestApp_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "cassandra"
	_, err := New(context.Background(), cfg, nil, Options{Embedder: trigramEmbedder{}, Chat: &stubChat{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestApp_MCPServer(t *testing.T) {
	a, _ := newTestApp(t)
	assert.NotNil(t, a.MCPServer().MCPServer())
}

func TestApp_CloseKeepsInjectedStore(t *testing.T) {
	store := memory.NewStore()
	a, err := New(context.Background(), testConfig(), nil, Options{
		Store:    store,
		Embedder: trigramEmbedder{},
		Chat:     &stubChat{},
	})
	require.NoError(t, err)

	a.Close()
	assert.NoError(t, store.Ping(context.Background()))
}
