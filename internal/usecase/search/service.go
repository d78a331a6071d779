// Package search orchestrates retrieval: preprocessing, single-engine or
// hybrid search, score normalization, weighted fusion and the hybrid status policy.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	logpkg "github.com/ashokkumar81090/Hackathon/internal/logger"
	"github.com/ashokkumar81090/Hackathon/internal/metrics"
)

// DefaultCandidateMultiplier sizes the per-engine pool in hybrid mode relative to topK.
const DefaultCandidateMultiplier = 3

// Config tunes the orchestrator.
type Config struct {
	CandidateMultiplier int
	AdapterTimeout      time.Duration // 0 disables the per-call deadline
}

// Service is the single retrieval entry point.
type Service struct {
	keyword Adapter
	vector  Adapter
	pre     Preprocessor
	weights *WeightStore
	policy  Policy
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a retrieval service with StatusPolicy as the hybrid post-filter.
func New(
	keyword, vector Adapter, pre Preprocessor, weights *WeightStore, cfg Config, logger *zap.Logger,
) *Service {
	if cfg.CandidateMultiplier <= 0 {
		cfg.CandidateMultiplier = DefaultCandidateMultiplier
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		keyword: keyword,
		vector:  vector,
		pre:     pre,
		weights: weights,
		policy:  StatusPolicy{},
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// WithPolicy replaces the hybrid post-filter.
func (s *Service) WithPolicy(p Policy) *Service {
	s.policy = p
	return s
}

// Weights exposes the live weight store.
func (s *Service) Weights() *WeightStore { return s.weights }

// Search runs one retrieval request. An empty result is not an error.
func (s *Service) Search(ctx context.Context, req request.Request) (*result.Response, error) {
	start := s.now()
	traceID := req.RequestID()
	if traceID == "" {
		traceID = uuid.NewString()
	}

	if !req.Mode().IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSearchMode, req.Mode())
	}
	if req.Query() == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}

	ctx, log := logpkg.With(ctx, s.logger,
		zap.String("trace_id", traceID),
		zap.String("mode", string(req.Mode())),
	)
	ctx, usage := domain.NewContextWithUsage(ctx)
	q := s.pre.Process(req.Query())

	var (
		results []result.Ranked
		err     error
	)
	switch req.Mode() {
	case mode.Keyword:
		results, err = s.single(ctx, s.keyword, q.SearchOptimized, req.TopK(), req.Filters())
	case mode.Vector:
		results, err = s.single(ctx, s.vector, q.SearchOptimized, req.TopK(), req.Filters())
	case mode.Hybrid:
		results, err = s.hybrid(ctx, q.SearchOptimized, req.TopK(), req.Filters())
	}

	elapsed := s.now().Sub(start)
	metrics.SearchDuration.WithLabelValues(string(req.Mode())).Observe(elapsed.Seconds())
	tokens, _ := usage.Snapshot()
	log = log.With(
		zap.Int("top_k", req.TopK()),
		zap.Int("expansions", len(q.Expansions)),
		zap.Int("embedding_tokens", tokens),
		zap.Duration("elapsed", elapsed),
	)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "error").Inc()
		log.Warn("Search failed", zap.Error(err))
		return nil, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "ok").Inc()
	log.Info("Search completed", zap.Int("results", len(results)))

	return &result.Response{
		Query:   q,
		Mode:    req.Mode(),
		Results: results,
		Trace:   result.Trace{ID: traceID, Start: start, Elapsed: elapsed, EmbeddingTokens: tokens},
	}, nil
}

// single returns one engine's hits as-is with the raw score and the engine as match type.
func (s *Service) single(
	ctx context.Context, a Adapter, query string, topK int, filters filter.Filters,
) ([]result.Ranked, error) {
	cands, err := s.call(ctx, a, query, topK, filters)
	if err != nil {
		return nil, err
	}
	out := make([]result.Ranked, 0, min(len(cands), topK))
	for _, c := range cands {
		if len(out) == topK {
			break
		}
		out = append(out, result.FromCandidate(c))
	}
	return out, nil
}

// hybrid runs both engines concurrently; either failure aborts the request.
func (s *Service) hybrid(
	ctx context.Context, query string, topK int, filters filter.Filters,
) ([]result.Ranked, error) {
	w := s.weights.Load()
	pool := topK * s.cfg.CandidateMultiplier

	var kw, vec []result.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kw, err = s.call(gctx, s.keyword, query, pool, filter.Filters{})
		return err
	})
	g.Go(func() error {
		var err error
		vec, err = s.call(gctx, s.vector, query, pool, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := Fuse(Normalize(kw), Normalize(vec), w)
	before := len(fused)
	fused = s.policy.Apply(fused)
	if dropped := before - len(fused); dropped > 0 {
		metrics.SearchPolicyDroppedTotal.Add(float64(dropped))
	}

	sort.SliceStable(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })
	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}

// call bounds one adapter call by the configured timeout and records its metrics.
func (s *Service) call(
	ctx context.Context, a Adapter, query string, topK int, filters filter.Filters,
) ([]result.Candidate, error) {
	if s.cfg.AdapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AdapterTimeout)
		defer cancel()
	}

	engine := string(a.Engine())
	start := time.Now()
	cands, err := a.Search(ctx, query, topK, filters)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.SearchEngineDuration.WithLabelValues(engine, outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.SearchCandidates.WithLabelValues(engine).Observe(float64(len(cands)))
	return cands, nil
}
