package domain

import (
	"context"
	"fmt"
)

// Embedder turns text into a vector. Query and document embedders are separate
// chains over the same provider (see WithInstruction).
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes several texts in one provider call; ingestion uses it per batch.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dimensioned is implemented by embedders that know the vector length they produce.
type Dimensioned interface {
	Dimensions() int
}

// CheckDimension returns a *DimensionMismatchError when len(vec) differs from want.
// A non-positive want disables the check.
func CheckDimension(vec []float32, want int) error {
	if want > 0 && len(vec) != want {
		return &DimensionMismatchError{Expected: want, Got: len(vec)}
	}
	return nil
}

// EmbeddingResult is one vector plus the tokens the provider billed for it.
// Cache hits report zero tokens.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult holds vectors in input order and the summed token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbed uses e's native batch call when it has one and embeds one text at a
// time otherwise.
func BatchEmbed(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if be, ok := e.(BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return BatchFallback(ctx, e, texts)
}

// BatchFallback embeds texts sequentially and stops at the first error or
// when ctx is done.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	out := BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("embed %d of %d: %w", i+1, len(texts), err)
		}
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("embed %d of %d: %w", i+1, len(texts), err)
		}
		out.Embeddings[i] = res.Embedding
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}
	return out, nil
}
