package answer

import (
	"context"

	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

// Retriever runs one retrieval request.
type Retriever interface {
	Search(ctx context.Context, req request.Request) (*result.Response, error)
}
