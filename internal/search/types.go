// Package search runs keyword searches against the remote Data API and keeps
// the latest result list.
//
// Collect is the stateless pipeline: search, then fetch every video's
// comments concurrently. Orchestrator wraps it with the interactive state
// (query, sort, loading flag, results) and guarantees that a slow search can
// never overwrite the results of a newer one.
package search

import (
	"context"

	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// Remote is the subset of the Data API client the search needs.
type Remote interface {
	SearchVideos(ctx context.Context, keyword string, order youtube.SortOrder) ([]youtube.Video, error)
	FetchComments(ctx context.Context, videoID string) (youtube.CommentPage, error)
}

// Ensure the real client satisfies Remote.
var _ Remote = (*youtube.Client)(nil)

// Result is a video together with its first page of comments.
type Result struct {
	youtube.Video
	Comments      []youtube.Comment `json:"comments"`
	TotalComments int               `json:"total_comments"`
}

// NewResult pairs a video with its fetched comments.
func NewResult(v youtube.Video, page youtube.CommentPage) Result {
	comments := page.Comments
	if comments == nil {
		comments = []youtube.Comment{}
	}
	return Result{Video: v, Comments: comments, TotalComments: page.TotalComments}
}

// State is a snapshot of the orchestrator.
type State struct {
	Query   string
	Sort    youtube.SortOrder
	Loading bool

	// Results is the list from the most recent applied search. The slice is
	// shared between snapshots and must not be modified.
	Results []Result

	// Err is the failure of the most recent search, cleared on success.
	Err error

	// Generation counts searches started so far.
	Generation uint64
}
