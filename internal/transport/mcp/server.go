// Package mcp exposes incident search and question answering as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
	"github.com/ashokkumar81090/Hackathon/internal/version"
)

// Tool names.
const (
	ToolSearch = "search_incidents"
	ToolAsk    = "ask_incidents"
)

// Searcher runs retrieval requests.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (*result.Response, error)
}

// Answerer generates answers over retrieved incidents.
type Answerer interface {
	Ask(ctx context.Context, req request.Request) (*answeruc.Result, error)
}

// Server registers the incident tools on an MCP server.
type Server struct {
	mcp    *mcp.Server
	search Searcher
	answer Answerer
	limits request.Limits
	logger *zap.Logger
}

// NewServer creates the MCP server. ask_incidents is registered only when answer is non-nil.
func NewServer(search Searcher, answer Answerer, limits request.Limits, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		answer: answer,
		limits: limits,
		logger: logger,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "incidentrag", Version: version.Version}, nil)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: ToolSearch,
		Description: "Search past IT incidents by keyword, semantic similarity or both (hybrid). " +
			"Abbreviations such as VPN or SSO are expanded before searching. " +
			"Hybrid results only include Resolved or Closed incidents.",
	}, s.handleSearch)

	if s.answer != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name: ToolAsk,
			Description: "Answer a question about IT incidents using the most relevant past incidents as context. " +
				"In hybrid mode the answer includes recommendations distilled from resolved incidents.",
		}, s.handleAsk)
	}
	s.logger.Debug("MCP tools registered", zap.Bool("ask", s.answer != nil))
}

// Serve runs the server over stdio until ctx is canceled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("Starting MCP server", zap.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", zap.Error(err))
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	req, err := in.toRequest(s.limits)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}
	resp, err := s.search.Search(ctx, req)
	if err != nil {
		s.logger.Warn("search_incidents failed", zap.Error(err))
		return nil, SearchOutput{}, toolError(err)
	}
	return nil, searchOutputFrom(resp), nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	AskOutput,
	error,
) {
	req, err := in.toRequest(s.limits)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}
	res, err := s.answer.Ask(ctx, req)
	if err != nil {
		s.logger.Warn("ask_incidents failed", zap.Error(err))
		return nil, AskOutput{}, toolError(err)
	}
	return nil, askOutputFrom(res), nil
}

// clientSafe are the errors whose full message is returned to the client.
var clientSafe = []error{domain.ErrInvalidQuery, domain.ErrUnsupportedSearchMode}

// upstream are reported by their sentinel text only.
var upstream = []error{
	domain.ErrEmbeddingDimensionMismatch,
	domain.ErrEmbeddingProviderError,
	domain.ErrChatProviderError,
	domain.ErrKeywordSearchFailure,
	domain.ErrVectorSearchFailure,
}

func toolError(err error) error {
	for _, s := range clientSafe {
		if errors.Is(err, s) {
			return err
		}
	}
	for _, s := range upstream {
		if errors.Is(err, s) {
			return s
		}
	}
	return errors.New("internal error")
}
