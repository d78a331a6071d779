// Package answer generates grounded answers and resolution recommendations
// from retrieved incidents.
package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
)

// Metadata describes how an answer was produced.
type Metadata struct {
	SearchMethod   mode.Mode     `json:"searchMethod"`
	ProcessingTime time.Duration `json:"-"`
	Model          string        `json:"model"`
	Timestamp      time.Time     `json:"timestamp"`
	TraceID        string        `json:"traceId"`
}

// Result is a generated answer with its supporting incidents.
type Result struct {
	Query             string
	Processed         preprocess.Query
	Answer            string
	RelevantIncidents []result.Ranked
	Recommendations   *Recommendations
	Metadata          Metadata
}

// Service answers questions over the incident corpus.
type Service struct {
	retriever Retriever
	chat      domain.ChatCompleter
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an answer service.
func New(retriever Retriever, chat domain.ChatCompleter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: retriever, chat: chat, logger: logger, now: time.Now}
}

// Ask retrieves incidents for req and asks the model to answer from them.
// Recommendations are attempted only in hybrid mode; their failure is logged, not returned.
func (s *Service) Ask(ctx context.Context, req request.Request) (*Result, error) {
	start := s.now()

	resp, err := s.retriever.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	log := s.logger.With(zap.String("trace_id", resp.Trace.ID))
	out := &Result{
		Query:             req.Query(),
		Processed:         resp.Query,
		RelevantIncidents: resp.Results,
		Metadata: Metadata{
			SearchMethod: req.Mode(),
			Model:        s.chat.Model(),
			Timestamp:    start.UTC(),
			TraceID:      resp.Trace.ID,
		},
	}

	if len(resp.Results) == 0 {
		log.Info("No incidents retrieved, skipping generation")
		out.Answer = NoIncidentsAnswer
		out.RelevantIncidents = []result.Ranked{}
		out.Metadata.ProcessingTime = s.now().Sub(start)
		return out, nil
	}

	completion, err := s.chat.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: qaSystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(qaUserTemplate, req.Query(), formatContext(resp.Results))},
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	out.Answer = completion.Content
	if completion.Model != "" {
		out.Metadata.Model = completion.Model
	}

	if req.Mode() == mode.Hybrid {
		out.Recommendations = s.recommend(ctx, log, req.Query(), resp.Results)
	}

	out.Metadata.ProcessingTime = s.now().Sub(start)
	log.Info("Answer generated",
		zap.Int("incidents", len(resp.Results)),
		zap.Bool("recommendations", out.Recommendations != nil),
		zap.Duration("elapsed", out.Metadata.ProcessingTime),
	)
	return out, nil
}

func (s *Service) recommend(ctx context.Context, log *zap.Logger, query string, results []result.Ranked) *Recommendations {
	resolved := make([]result.Ranked, 0, len(results))
	for _, r := range results {
		if r.Fields.IsResolved() {
			resolved = append(resolved, r)
		}
	}
	if len(resolved) == 0 {
		return nil
	}

	completion, err := s.chat.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: recommendationsSystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(recommendationsUserTemplate, query, formatResolved(resolved))},
	})
	if err != nil {
		log.Warn("Failed to generate recommendations", zap.Error(err))
		return nil
	}

	rec, err := parseRecommendations(completion.Content)
	if err != nil {
		log.Warn("Failed to parse recommendations", zap.Error(err), zap.String("raw", completion.Content))
		return nil
	}
	return &rec
}
