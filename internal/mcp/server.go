// Package mcp exposes the search pipeline as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
	"github.com/Aman-CERP/ytsearch/pkg/version"
)

// Name is the implementation name reported to clients.
const Name = "ytsearch"

// API is the remote client the tools call.
type API interface {
	search.Remote
	FetchRating(ctx context.Context, videoID string) (youtube.Rating, error)
}

var _ API = (*youtube.Client)(nil)

// Server is the MCP server for ytsearch.
type Server struct {
	mcp    *mcp.Server
	api    API
	logger *slog.Logger
}

// NewServer creates a Server with every tool registered.
func NewServer(api API, logger *slog.Logger) (*Server, error) {
	if api == nil {
		return nil, errors.New("api client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{api: api, logger: logger}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: version.Version,
	}, nil)
	s.registerTools()
	return s, nil
}

// Tools lists the registered tool names.
func (s *Server) Tools() []string {
	return []string{toolSearchVideos, toolGetComments, toolGetRating}
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp_started", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("mcp_stopped", yterrors.LogAttrs(err)...)
		return yterrors.InternalError("mcp server stopped", err)
	}
	s.logger.Info("mcp_stopped")
	return nil
}

const (
	toolSearchVideos = "search_videos"
	toolGetComments  = "get_comments"
	toolGetRating    = "get_rating"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolSearchVideos,
		Description: "Search videos by keyword. Each result carries its first page of comment threads and a total comment count.",
	}, s.handleSearchVideos)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolGetComments,
		Description: "Fetch the first page of top-level comment threads for a video.",
	}, s.handleGetComments)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolGetRating,
		Description: "Fetch the authorised user's rating of a video: like, dislike, none or unspecified.",
	}, s.handleGetRating)

	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(s.Tools())))
}

func (s *Server) handleSearchVideos(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	order, err := youtube.ParseSortOrder(in.Order)
	if err != nil {
		return nil, SearchOutput{}, s.toolError(toolSearchVideos, err)
	}

	results, err := search.Collect(ctx, s.api, in.Query, order, s.logger)
	if err != nil {
		return nil, SearchOutput{}, s.toolError(toolSearchVideos, err)
	}

	out := SearchOutput{
		Query:   in.Query,
		Order:   string(order),
		Count:   len(results),
		Results: make([]VideoOutput, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, toVideoOutput(r))
	}
	return nil, out, nil
}

func (s *Server) handleGetComments(ctx context.Context, _ *mcp.CallToolRequest, in VideoInput) (
	*mcp.CallToolResult,
	CommentsOutput,
	error,
) {
	if err := youtube.ValidateVideoID(in.VideoID); err != nil {
		return nil, CommentsOutput{}, s.toolError(toolGetComments, err)
	}

	page, err := s.api.FetchComments(ctx, in.VideoID)
	if err != nil {
		return nil, CommentsOutput{}, s.toolError(toolGetComments, err)
	}
	return nil, CommentsOutput{
		VideoID:       in.VideoID,
		TotalComments: page.TotalComments,
		Comments:      toCommentOutputs(page.Comments),
	}, nil
}

func (s *Server) handleGetRating(ctx context.Context, _ *mcp.CallToolRequest, in VideoInput) (
	*mcp.CallToolResult,
	RatingOutput,
	error,
) {
	if err := youtube.ValidateVideoID(in.VideoID); err != nil {
		return nil, RatingOutput{}, s.toolError(toolGetRating, err)
	}

	rating, err := s.api.FetchRating(ctx, in.VideoID)
	if err != nil {
		return nil, RatingOutput{}, s.toolError(toolGetRating, err)
	}
	return nil, RatingOutput{VideoID: in.VideoID, Rating: string(rating), Score: rating.Score()}, nil
}

// toolError logs err and returns the single-line form the client sees.
func (s *Server) toolError(tool string, err error) error {
	attrs := append([]any{slog.String("tool", tool)}, yterrors.LogAttrs(err)...)
	s.logger.Warn("mcp_tool_failed", attrs...)

	msg := yterrors.FormatInline(err)
	ye, ok := yterrors.As(err)
	if !ok {
		return errors.New(msg)
	}
	if ye.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, yterrors.FormatInline(ye.Cause))
	}
	if ye.Suggestion != "" {
		msg = fmt.Sprintf("%s. %s", msg, ye.Suggestion)
	}
	return errors.New(msg)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
