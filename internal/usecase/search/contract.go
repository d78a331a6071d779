package search

import (
	"context"

	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
)

// Adapter is one retrieval engine. Results come back in engine relevance order,
// at most topK of them, with engine-specific RawScore (higher is better).
type Adapter interface {
	Engine() mode.Mode
	Search(ctx context.Context, query string, topK int, filters filter.Filters) ([]result.Candidate, error)
}

// Preprocessor turns raw text into the query sent to the engines.
type Preprocessor interface {
	Process(raw string) preprocess.Query
}
