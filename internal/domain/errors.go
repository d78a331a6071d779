package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or oversized query, or an invalid topK.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnsupportedSearchMode signals a search mode outside keyword|vector|hybrid.
	ErrUnsupportedSearchMode = errors.New("unsupported search mode")
	// ErrKeywordSearchFailure signals that the keyword index could not answer.
	ErrKeywordSearchFailure = errors.New("keyword search failure")
	// ErrVectorSearchFailure signals that embedding or the vector index failed.
	ErrVectorSearchFailure = errors.New("vector search failure")
	// ErrEmbeddingDimensionMismatch signals a query vector whose length differs from the index dimension.
	ErrEmbeddingDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidIncident signals an incident payload missing required fields.
	ErrInvalidIncident = errors.New("invalid incident")
	// ErrIncidentNotFound signals a missing incident record.
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)

// EngineError carries the engine and query of a failed adapter call.
// It matches both its kind sentinel and the underlying cause with errors.Is.
type EngineError struct {
	Engine string
	Query  string
	Kind   error
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s (engine=%s, query=%q): %v", e.Kind, e.Engine, e.Query, e.Err)
}

func (e *EngineError) Unwrap() []error { return []error{e.Kind, e.Err} }

// NewKeywordFailure wraps err as a keyword engine failure.
func NewKeywordFailure(query string, err error) error {
	return &EngineError{Engine: "keyword", Query: query, Kind: ErrKeywordSearchFailure, Err: err}
}

// NewVectorFailure wraps err as a vector engine failure.
func NewVectorFailure(query string, err error) error {
	return &EngineError{Engine: "vector", Query: query, Kind: ErrVectorSearchFailure, Err: err}
}

// DimensionMismatchError reports the expected and actual embedding lengths.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrEmbeddingDimensionMismatch, e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrEmbeddingDimensionMismatch }
