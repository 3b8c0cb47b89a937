package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/metrics"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// Collect searches for query and attaches each video's comments. Result order
// is the search order regardless of which comment fetch finishes first.
//
// A failed comment fetch is logged and leaves that video with no comments; it
// never fails the search. A failed search returns an ERR_503 error wrapping
// the cause. A canceled ctx yields whatever the remote returns on
// cancellation, which for the real client is an empty list.
func Collect(ctx context.Context, remote Remote, query string, order youtube.SortOrder, logger *slog.Logger) ([]Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	videos, err := remote.SearchVideos(ctx, query, order)
	if err != nil {
		return nil, yterrors.New(yterrors.ErrCodeSearchFailed, "video search failed", err).
			WithDetail("query", query).
			WithDetail("order", string(order))
	}

	results := make([]Result, len(videos))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range videos {
		g.Go(func() error {
			page, err := remote.FetchComments(gctx, v.ID)
			if err != nil {
				metrics.CommentsDegradedTotal.Inc()
				attrs := append([]any{slog.String("video_id", v.ID)}, yterrors.LogAttrs(err)...)
				logger.Warn("comments_degraded", attrs...)
				page = youtube.CommentPage{}
			}
			results[i] = NewResult(v, page)
			// Don't fail the group: one video's comments must not cancel the rest.
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug("search_collected",
		slog.String("query", query),
		slog.String("order", string(order)),
		slog.Int("videos", len(results)),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}
