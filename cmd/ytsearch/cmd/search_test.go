package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

func TestSearchCmd_PlainOutput(t *testing.T) {
	// Given: a working API
	cfgPath := testEnv(t, fakeDataAPI(t))

	// When: searching
	out, err := execute(t, "--config", cfgPath, "search", "golang", "gophers")

	// Then: both results are printed, markup decoded
	require.NoError(t, err)
	assert.Contains(t, out, `2 results for "golang gophers" (relevance)`)
	assert.Contains(t, out, "Gophers & Friends")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=vid1")
	assert.Contains(t, out, "Second")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	// Given: a working API where vid2 has comments disabled
	cfgPath := testEnv(t, fakeDataAPI(t))

	// When: searching with --json and an explicit order
	out, err := execute(t, "--config", cfgPath, "search", "gophers", "--order", "date", "--json")

	// Then: results keep search order and vid2 degrades to no comments
	require.NoError(t, err)
	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "gophers", got.Query)
	assert.Equal(t, youtube.SortDate, got.Order)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "vid1", got.Results[0].ID)
	assert.Equal(t, "Gophers &amp; Friends", got.Results[0].Title)
	assert.Equal(t, 3, got.Results[0].TotalComments)
	require.Len(t, got.Results[0].Comments, 1)
	assert.Equal(t, "great talk", got.Results[0].Comments[0].Text)
	assert.Equal(t, "vid2", got.Results[1].ID)
	assert.Empty(t, got.Results[1].Comments)
	assert.Zero(t, got.Results[1].TotalComments)
}

func TestSearchCmd_EmptyQueryIsSent(t *testing.T) {
	// Given: an API that records the query parameter
	var sent []string
	cfgPath := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/youtube/v3/search" {
			q, ok := r.URL.Query()["q"]
			assert.True(t, ok)
			sent = append(sent, q...)
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	// When: searching with no query
	out, err := execute(t, "--config", cfgPath, "search")

	// Then: the empty keyword reaches the API
	require.NoError(t, err)
	assert.Equal(t, []string{""}, sent)
	assert.Contains(t, out, `0 results for ""`)
}

func TestSearchCmd_InvalidOrder(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	_, err := execute(t, "--config", cfgPath, "search", "x", "--order", "views")

	require.Error(t, err)
	assert.Equal(t, yterrors.ErrCodeInvalidSort, yterrors.GetCode(err))
}

func TestSearchCmd_APIFailure(t *testing.T) {
	// Given: an API that rejects the key
	cfgPath := testEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("keyInvalid"))
	})

	// When: searching
	_, err := execute(t, "--config", cfgPath, "search", "x")

	// Then: the search failure wraps the API error and its body
	require.Error(t, err)
	assert.Equal(t, yterrors.ErrCodeSearchFailed, yterrors.GetCode(err))
	assert.ErrorIs(t, err, yterrors.New(yterrors.ErrCodeAPIStatus, "", nil))
	cause := errors.Unwrap(err)
	require.NotNil(t, cause)
	assert.Contains(t, cause.Error(), "keyInvalid")
}

func TestCommentsCmd(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	out, err := execute(t, "--config", cfgPath, "comments", "vid1")

	require.NoError(t, err)
	assert.Contains(t, out, "vid1")
	assert.Contains(t, out, "great talk")
	assert.Contains(t, out, "ann")
}

func TestCommentsCmd_JSON(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	out, err := execute(t, "--config", cfgPath, "comments", "vid1", "--json")

	require.NoError(t, err)
	var page youtube.CommentPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 3, page.TotalComments)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "c1", page.Comments[0].ID)
}

func TestCommentsCmd_Disabled(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	_, err := execute(t, "--config", cfgPath, "comments", "vid2")

	require.Error(t, err)
	assert.Equal(t, yterrors.ErrCodeAPIStatus, yterrors.GetCode(err))
}

func TestCommentsCmd_InvalidID(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	_, err := execute(t, "--config", cfgPath, "comments", "not a video")

	require.Error(t, err)
	assert.Equal(t, yterrors.ErrCodeInvalidVideoID, yterrors.GetCode(err))
}

func TestRatingCmd(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	out, err := execute(t, "--config", cfgPath, "rating", "vid1")

	require.NoError(t, err)
	assert.Contains(t, out, "vid1:")
	assert.Contains(t, out, "like")
	assert.Contains(t, out, "(score +1)")
}

func TestRatingCmd_JSON(t *testing.T) {
	cfgPath := testEnv(t, fakeDataAPI(t))

	out, err := execute(t, "--config", cfgPath, "rating", "vid1", "--json")

	require.NoError(t, err)
	var got ratingOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ratingOutput{VideoID: "vid1", Rating: youtube.RatingLike, Score: 1}, got)
}

func TestRatingCmd_RequiresOneArg(t *testing.T) {
	testEnv(t, nil)

	_, err := execute(t, "rating")

	require.Error(t, err)
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()

	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "", addr.DefValue)
}
