package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/logging"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

func TestCollect_PreservesSearchOrder(t *testing.T) {
	// Given: comment fetches that finish in reverse order
	delays := map[string]time.Duration{"q-1": 60 * time.Millisecond, "q-2": 30 * time.Millisecond, "q-3": 0}
	remote := &fakeRemote{
		commentsFn: func(ctx context.Context, id string) (youtube.CommentPage, error) {
			time.Sleep(delays[id])
			return commentsFor(id), nil
		},
	}

	// When: collecting
	results, err := Collect(context.Background(), remote, "q", youtube.SortDate, logging.Discard())

	// Then: the order is the search order and every video has its comments
	require.NoError(t, err)
	assert.Equal(t, []string{"q-1", "q-2", "q-3"}, ids(results))
	for _, r := range results {
		require.Len(t, r.Comments, 1)
		assert.Equal(t, r.ID+"-c", r.Comments[0].ID)
		assert.Equal(t, 2, r.TotalComments)
	}
}

func TestCollect_CommentFailureDegrades(t *testing.T) {
	// Given: the second video's comments fail
	remote := &fakeRemote{
		commentsFn: func(ctx context.Context, id string) (youtube.CommentPage, error) {
			if id == "q-2" {
				return youtube.CommentPage{}, yterrors.APIError(403, "commentsDisabled")
			}
			return commentsFor(id), nil
		},
	}

	// When: collecting
	results, err := Collect(context.Background(), remote, "q", youtube.SortRelevance, logging.Discard())

	// Then: the search succeeds and that video has an empty comment list
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "q-2", results[1].ID)
	assert.NotNil(t, results[1].Comments)
	assert.Empty(t, results[1].Comments)
	assert.Equal(t, 0, results[1].TotalComments)
	assert.Len(t, results[0].Comments, 1)
	assert.Len(t, results[2].Comments, 1)
}

func TestCollect_CommentFailureDoesNotCancelSiblings(t *testing.T) {
	remote := &fakeRemote{
		commentsFn: func(ctx context.Context, id string) (youtube.CommentPage, error) {
			if id == "q-1" {
				return youtube.CommentPage{}, errors.New("boom")
			}
			time.Sleep(20 * time.Millisecond)
			if ctx.Err() != nil {
				return youtube.CommentPage{}, ctx.Err()
			}
			return commentsFor(id), nil
		},
	}

	results, err := Collect(context.Background(), remote, "q", youtube.SortRelevance, logging.Discard())

	require.NoError(t, err)
	assert.Empty(t, results[0].Comments)
	assert.Len(t, results[1].Comments, 1)
	assert.Len(t, results[2].Comments, 1)
}

func TestCollect_SearchFailure(t *testing.T) {
	cause := yterrors.APIError(500, "backend error")
	remote := &fakeRemote{
		searchFn: func(context.Context, string, youtube.SortOrder) ([]youtube.Video, error) {
			return nil, cause
		},
	}

	results, err := Collect(context.Background(), remote, "q", youtube.SortRelevance, logging.Discard())

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, yterrors.ErrCodeSearchFailed, yterrors.GetCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestCollect_NoVideos(t *testing.T) {
	remote := &fakeRemote{
		searchFn: func(context.Context, string, youtube.SortOrder) ([]youtube.Video, error) {
			return []youtube.Video{}, nil
		},
	}

	results, err := Collect(context.Background(), remote, "", youtube.SortRelevance, nil)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, []string{""}, remote.calls(), "empty query is sent as-is")
}
