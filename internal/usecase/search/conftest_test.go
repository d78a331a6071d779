package search

import (
	"context"
	"sync"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

// --- Mocks ---

type adapterCall struct {
	query   string
	topK    int
	filters filter.Filters
}

type mockAdapter struct {
	engine   mode.Mode
	searchFn func(ctx context.Context, query string, topK int, filters filter.Filters) ([]result.Candidate, error)

	mu    sync.Mutex
	calls []adapterCall
}

func (m *mockAdapter) Engine() mode.Mode { return m.engine }

func (m *mockAdapter) Search(
	ctx context.Context, query string, topK int, filters filter.Filters,
) ([]result.Candidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, adapterCall{query: query, topK: topK, filters: filters})
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query, topK, filters)
	}
	return nil, nil
}

func (m *mockAdapter) lastCall() adapterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return adapterCall{}
	}
	return m.calls[len(m.calls)-1]
}

func returning(cands ...result.Candidate) func(context.Context, string, int, filter.Filters) ([]result.Candidate, error) {
	return func(context.Context, string, int, filter.Filters) ([]result.Candidate, error) {
		return cands, nil
	}
}

func failing(err error) func(context.Context, string, int, filter.Filters) ([]result.Candidate, error) {
	return func(context.Context, string, int, filter.Filters) ([]result.Candidate, error) {
		return nil, err
	}
}

func cand(id string, score float64, status string, engine mode.Mode) result.Candidate {
	return result.Candidate{
		RecordID: id,
		Summary:  "summary " + id,
		Content:  "content " + id,
		RawScore: score,
		Engine:   engine,
		Fields:   incident.Fields{Status: status},
	}
}
