// Package chi exposes the retrieval, answer and ingestion use cases over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	logpkg "github.com/ashokkumar81090/Hackathon/internal/logger"
	"github.com/ashokkumar81090/Hackathon/internal/metrics"
	increpo "github.com/ashokkumar81090/Hackathon/internal/repository/incident"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
	healthuc "github.com/ashokkumar81090/Hackathon/internal/usecase/health"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

// maxIngestBody bounds POST /api/incidents.
const maxIngestBody = 32 << 20

// Searcher runs retrieval requests.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (*result.Response, error)
}

// Answerer generates answers over retrieved incidents.
type Answerer interface {
	Ask(ctx context.Context, req request.Request) (*answeruc.Result, error)
}

// Ingester loads incidents into the index.
type Ingester interface {
	Ingest(ctx context.Context, incidents []incident.Incident, opts ingestuc.Options) (ingestuc.Report, error)
}

// IndexStats reports on the incident index.
type IndexStats interface {
	Count(ctx context.Context) (int, error)
	Schema() increpo.Schema
}

// HealthChecker aggregates dependency probes.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Deps wires the server. Answer may be nil, in which case /api/query is not mounted.
type Deps struct {
	Search          Searcher
	Answer          Answerer
	Ingest          Ingester
	Index           IndexStats
	Health          HealthChecker
	Weights         *searchuc.WeightStore
	Limits          request.Limits
	IngestBatchSize int
	APIKeys         []string
	Logger          *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{deps: deps, logger: logger}
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(requestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(s.deps.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle(metrics.ScrapePath, promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.SearchPost)
		r.Get("/search", s.SearchGet)
		if s.deps.Answer != nil {
			r.Post("/query", s.Query)
		}
		r.Get("/stats", s.Stats)
		r.Get("/weights", s.GetWeights)
		r.Put("/weights", s.PutWeights)
		r.Post("/incidents", s.IngestIncidents)
	})
	return r
}

// SearchPost handles POST /api/search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchBody(w, r)
	if !ok {
		return
	}
	s.search(w, r, req)
}

// SearchGet handles GET /api/search.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	filters := filter.New(deref(params.IncidentID), deref(params.Category), deref(params.Status), deref(params.Priority))
	topK := 0
	if params.TopK != nil {
		topK = *params.TopK
	}
	m, err := mode.Parse(deref(params.SearchType))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	req, err := request.NewWithLimits(params.Q, m, topK, filters, s.deps.Limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.search(w, r, req.WithRequestID(chiMiddleware.GetReqID(r.Context())))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req request.Request) {
	resp, err := s.deps.Search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if resp.Trace.EmbeddingTokens > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(resp.Trace.EmbeddingTokens))
	}
	writeJSON(w, http.StatusOK, searchResponseFrom(resp))
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchBody(w, r)
	if !ok {
		return
	}
	res, err := s.deps.Answer.Ask(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponseFrom(res))
}

// Stats handles GET /api/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := s.deps.Index.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	schema := s.deps.Index.Schema()
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalIncidents: count,
		IndexName:      schema.IndexName,
		KeyPrefix:      schema.KeyPrefix,
		Weights:        s.deps.Weights.Load(),
	})
}

// GetWeights handles GET /api/weights.
func (s *Server) GetWeights(w http.ResponseWriter, _ *http.Request) {
	cur := s.deps.Weights.Load()
	writeJSON(w, http.StatusOK, WeightsResponse{Weights: cur, Warning: cur.SumWarning()})
}

type weightsBody struct {
	Vector  *float64 `json:"vectorWeight"`
	Keyword *float64 `json:"keywordWeight"`
}

// PutWeights handles PUT /api/weights. Both weights are required and swapped together.
func (s *Server) PutWeights(w http.ResponseWriter, r *http.Request) {
	var body weightsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if body.Vector == nil || body.Keyword == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "vectorWeight and keywordWeight are required")
		return
	}

	next := searchuc.Weights{Vector: *body.Vector, Keyword: *body.Keyword}
	if err := s.deps.Weights.Set(next); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	warning := next.SumWarning()
	log := s.requestLogger(r).With(zap.Float64("vector", next.Vector), zap.Float64("keyword", next.Keyword))
	if warning != "" {
		log.Warn("Hybrid weights updated", zap.String("warning", warning))
	} else {
		log.Info("Hybrid weights updated")
	}
	writeJSON(w, http.StatusOK, WeightsResponse{Weights: next, Warning: warning})
}

// IngestIncidents handles POST /api/incidents.
func (s *Server) IngestIncidents(w http.ResponseWriter, r *http.Request) {
	var (
		clearExisting bool
		batchSize     int
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "clear", q, &clearExisting); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "batchSize", q, &batchSize); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if batchSize <= 0 {
		batchSize = s.deps.IngestBatchSize
	}

	var incidents []incident.Incident
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBody)).Decode(&incidents); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "body must be a JSON array of incidents: "+err.Error())
		return
	}
	if len(incidents) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "no incidents in request")
		return
	}

	rep, err := s.deps.Ingest.Ingest(r.Context(), incidents, ingestuc.Options{
		ClearExisting: clearExisting,
		BatchSize:     batchSize,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) decodeSearchBody(w http.ResponseWriter, r *http.Request) (request.Request, bool) {
	var body SearchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return request.Request{}, false
	}
	m, err := mode.Parse(body.SearchType)
	if err != nil {
		s.handleDomainError(w, r, err)
		return request.Request{}, false
	}
	req, err := request.NewWithLimits(body.Query, m, body.TopK, body.Filters.toDomain(), s.deps.Limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return request.Request{}, false
	}
	return req.WithRequestID(chiMiddleware.GetReqID(r.Context())), true
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"searchType", &p.SearchType},
		{"topK", &p.TopK},
		{"incidentId", &p.IncidentID},
		{"category", &p.Category},
		{"status", &p.Status},
		{"priority", &p.Priority},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

// requestLogger returns the request-scoped logger set by wideEventMiddleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContext(r.Context())
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
