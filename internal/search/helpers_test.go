package search

import (
	"context"
	"sync"

	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// fakeRemote is a scriptable Remote.
type fakeRemote struct {
	searchFn   func(ctx context.Context, query string, order youtube.SortOrder) ([]youtube.Video, error)
	commentsFn func(ctx context.Context, id string) (youtube.CommentPage, error)

	mu       sync.Mutex
	searches []string
	orders   []youtube.SortOrder
}

func (f *fakeRemote) SearchVideos(ctx context.Context, query string, order youtube.SortOrder) ([]youtube.Video, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.orders = append(f.orders, order)
	f.mu.Unlock()
	if f.searchFn == nil {
		return videos(query), nil
	}
	return f.searchFn(ctx, query, order)
}

func (f *fakeRemote) FetchComments(ctx context.Context, id string) (youtube.CommentPage, error) {
	if f.commentsFn == nil {
		return commentsFor(id), nil
	}
	return f.commentsFn(ctx, id)
}

func (f *fakeRemote) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

// videos returns three videos whose IDs are prefixed with query.
func videos(query string) []youtube.Video {
	return []youtube.Video{
		{ID: query + "-1", Title: query + " one"},
		{ID: query + "-2", Title: query + " two"},
		{ID: query + "-3", Title: query + " three"},
	}
}

func commentsFor(id string) youtube.CommentPage {
	return youtube.CommentPage{
		Comments:      []youtube.Comment{{ID: id + "-c", Text: "nice", ReplyCount: 1}},
		TotalComments: 2,
	}
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
