//go:build integration

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ashokkumar81090/Hackathon/internal/config"
	chiTransport "github.com/ashokkumar81090/Hackathon/internal/transport/chi"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
)

// redisStackImage ships RediSearch, which provides FT.CREATE and BM25 scoring.
const redisStackImage = "redis/redis-stack-server:7.4.0-v1"

func startRedisStack(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisStackImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis-stack container")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestIntegration_RedisHybridFlow(t *testing.T) {
	addr := startRedisStack(t)

	cfg := testConfig()
	cfg.Database = config.DatabaseConfig{Driver: config.DriverRedis, Addrs: []string{addr}, ReadinessTimeout: 30}
	cfg.Embedding.RedisCache = true

	chat := &stubChat{}
	a, err := New(context.Background(), cfg, nil, Options{Embedder: trigramEmbedder{}, Chat: chat})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	created, err := a.Incidents.EnsureIndex(context.Background())
	require.NoError(t, err)
	assert.True(t, created)

	h := a.HTTPServer().Handler()

	rr := call(t, h, http.MethodPost, "/api/incidents", incidentsJSON)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rep ingestuc.Report
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rep))
	assert.Equal(t, 3, rep.Ingested)

	require.Eventually(t, func() bool {
		n, err := a.Incidents.Count(context.Background())
		return err == nil && n == 3
	}, 10*time.Second, 100*time.Millisecond, "index never caught up")

	rr = call(t, h, http.MethodPost, "/api/search", `{"query":"vpn drops","searchType":"hybrid"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var sr chiTransport.SearchResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sr))
	require.NotEmpty(t, sr.Results)
	assert.Equal(t, "INC101", sr.Results[0].RecordID)

	rr = call(t, h, http.MethodPost, "/api/search", `{"query":"crashes","searchType":"keyword"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	sr = chiTransport.SearchResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sr))
	require.NotEmpty(t, sr.Results)
	assert.Equal(t, "INC102", sr.Results[0].RecordID)
	assert.Equal(t, "keyword", string(sr.Results[0].MatchType))

	rr = call(t, h, http.MethodPost, "/api/search", `{"query":"printer jam","searchType":"vector","topK":1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	sr = chiTransport.SearchResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sr))
	require.Len(t, sr.Results, 1)
	assert.Equal(t, "INC103", sr.Results[0].RecordID)

	rr = call(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
