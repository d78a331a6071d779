package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
)

// ErrorCode is the machine-readable error code in an error body.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest                 ErrorCode = "bad_request"
	CodeUnauthorized               ErrorCode = "unauthorized"
	CodeInvalidQuery               ErrorCode = "invalid_query"
	CodeUnsupportedSearchMode      ErrorCode = "unsupported_search_mode"
	CodeKeywordSearchFailure       ErrorCode = "keyword_search_failure"
	CodeVectorSearchFailure        ErrorCode = "vector_search_failure"
	CodeEmbeddingDimensionMismatch ErrorCode = "embedding_dimension_mismatch"
	CodeEmbeddingProviderError     ErrorCode = "embedding_provider_error"
	CodeChatProviderError          ErrorCode = "chat_provider_error"
	CodeValidationFailed           ErrorCode = "validation_failed"
	CodeNotFound                   ErrorCode = "not_found"
	CodeInternalError              ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
}

// errorMappings is matched in order. The more specific embedding causes come
// before the engine failures that usually wrap them.
var errorMappings = []errorMapping{
	{domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery},
	{domain.ErrUnsupportedSearchMode, http.StatusBadRequest, CodeUnsupportedSearchMode},
	{domain.ErrInvalidIncident, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrIncidentNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrEmbeddingDimensionMismatch, http.StatusBadGateway, CodeEmbeddingDimensionMismatch},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError},
	{domain.ErrChatProviderError, http.StatusBadGateway, CodeChatProviderError},
	{domain.ErrKeywordSearchFailure, http.StatusBadGateway, CodeKeywordSearchFailure},
	{domain.ErrVectorSearchFailure, http.StatusBadGateway, CodeVectorSearchFailure},
}

// handleDomainError maps err onto the taxonomy. Client errors carry the full
// message; upstream failures expose only the sentinel text.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := m.sentinel.Error()
		if m.status < http.StatusInternalServerError {
			msg = err.Error()
			log.Info("Request rejected", zap.String("code", string(m.code)), zap.Error(err))
		} else {
			log.Warn("Upstream failure", zap.String("code", string(m.code)), zap.Error(err))
		}
		writeError(w, m.status, m.code, msg)
		return
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
