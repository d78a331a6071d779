package ingest

import (
	"context"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	increpo "github.com/ashokkumar81090/Hackathon/internal/repository/incident"
)

// Repository persists incidents and manages their index.
type Repository interface {
	EnsureIndex(ctx context.Context) (bool, error)
	Clear(ctx context.Context) (int, error)
	SaveBatch(ctx context.Context, records []increpo.Record) error
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes searchable texts. Embedders that also implement
// domain.BatchEmbedder get one provider call per batch.
type Embedder interface {
	domain.Embedder
}
