package domain

import (
	"context"
	"fmt"
	"strings"
)

// WithInstruction prefixes every text with instruction before it reaches inner.
// Instruction-tuned models embed queries and incidents asymmetrically; for
// plain models both instructions are empty and inner is returned unchanged.
// Wrap outside any cache so the prefix becomes part of the cache key.
func WithInstruction(inner Embedder, instruction string) Embedder {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return inner
	}
	return &instructionEmbedder{inner: inner, prefix: instruction + " "}
}

type instructionEmbedder struct {
	inner  Embedder
	prefix string
}

func (e *instructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := e.inner.Embed(ctx, e.prefix+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return res, nil
}

func (e *instructionEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = e.prefix + t
	}
	res, err := BatchEmbed(ctx, e.inner, prefixed)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("instruction batch embed: %w", err)
	}
	return res, nil
}

func (e *instructionEmbedder) Dimensions() int {
	if d, ok := e.inner.(Dimensioned); ok {
		return d.Dimensions()
	}
	return 0
}
