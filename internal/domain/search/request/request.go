package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
)

// MaxQueryLength is the maximum allowed search query length in characters.
const MaxQueryLength = 4096

// Limits bounds topK.
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

// DefaultLimits: topK defaults to 5 and is clamped to 50.
var DefaultLimits = Limits{DefaultTopK: 5, MaxTopK: 50}

// Request is a validated retrieval request.
type Request struct {
	query      string
	searchMode mode.Mode
	topK       int
	filters    filter.Filters
	requestID  string
}

// New validates and normalizes search parameters with DefaultLimits.
func New(query string, m mode.Mode, topK int, filters filter.Filters) (Request, error) {
	return NewWithLimits(query, m, topK, filters, DefaultLimits)
}

// NewWithLimits validates and normalizes search parameters.
// The query is trimmed and must be non-empty; an empty mode selects hybrid;
// topK 0 selects the default, a negative topK is rejected, a large one is clamped.
func NewWithLimits(query string, m mode.Mode, topK int, filters filter.Filters, lim Limits) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSearchMode, m)
	}
	if topK < 0 {
		return Request{}, fmt.Errorf("%w: topK must not be negative", domain.ErrInvalidQuery)
	}
	if lim.DefaultTopK <= 0 {
		lim.DefaultTopK = DefaultLimits.DefaultTopK
	}
	if lim.MaxTopK <= 0 {
		lim.MaxTopK = DefaultLimits.MaxTopK
	}
	if topK == 0 {
		topK = lim.DefaultTopK
	}
	topK = min(topK, lim.MaxTopK)

	return Request{
		query:      query,
		searchMode: m,
		topK:       topK,
		filters:    filter.New(filters.IncidentID, filters.Category, filters.Status, filters.Priority),
	}, nil
}

// WithRequestID returns a copy carrying a caller-supplied trace id.
func (r Request) WithRequestID(id string) Request {
	r.requestID = strings.TrimSpace(id)
	return r
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }

// Filters returns the exact-match filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// RequestID returns the caller-supplied trace id, if any.
func (r *Request) RequestID() string { return r.requestID }
