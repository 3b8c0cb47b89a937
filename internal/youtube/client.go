package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/metrics"
	"github.com/Aman-CERP/ytsearch/pkg/version"
)

const (
	// DefaultBaseURL is the public Data API host.
	DefaultBaseURL = "https://www.googleapis.com"

	// DefaultAPIVersion is the versioned path segment.
	DefaultAPIVersion = "v3"

	// SearchPageSize is the fixed maxResults for search.
	SearchPageSize = 50

	// CommentPageSize is the fixed maxResults for comment threads.
	CommentPageSize = 100

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 64 * 1024
)

// Config holds everything the client needs. It is passed in by the caller;
// the client never reads the environment.
type Config struct {
	APIKey     string
	APIVersion string
	BaseURL    string

	// HTTPClient defaults to a client without a timeout. Deadlines, if any,
	// come from the caller's context.
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the Data API.
type Client struct {
	apiKey  string
	version string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. Empty config fields fall back to the defaults.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		version: cfg.APIVersion,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		logger:  slog.Default(),
	}
	if c.version == "" {
		c.version = DefaultAPIVersion
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchVideos returns up to SearchPageSize videos matching keyword, in the
// order the API returned them. An empty keyword is sent as-is.
func (c *Client) SearchVideos(ctx context.Context, keyword string, order SortOrder) ([]Video, error) {
	if order == "" {
		order = SortRelevance
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("order", string(order))
	params.Set("maxResults", strconv.Itoa(SearchPageSize))
	params.Set("q", keyword)
	params.Set("type", "video")

	return get(ctx, c, request[searchResponse, []Video]{
		endpoint: "search",
		path:     "search",
		params:   params,
		extract: func(resp searchResponse) []Video {
			videos := make([]Video, 0, len(resp.Items))
			for _, item := range resp.Items {
				if item.ID.VideoID == "" {
					continue
				}
				videos = append(videos, item.video())
			}
			return videos
		},
		empty: []Video{},
	})
}

// FetchComments returns the first CommentPageSize comment threads of a video.
func (c *Client) FetchComments(ctx context.Context, videoID string) (CommentPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(CommentPageSize))
	params.Set("videoId", videoID)

	return get(ctx, c, request[commentThreadsResponse, CommentPage]{
		endpoint: "comment_threads",
		path:     "commentThreads",
		params:   params,
		extract: func(resp commentThreadsResponse) CommentPage {
			page := CommentPage{
				Comments:      make([]Comment, 0, len(resp.Items)),
				TotalComments: len(resp.Items),
			}
			for _, item := range resp.Items {
				page.Comments = append(page.Comments, item.comment())
				page.TotalComments += item.Snippet.TotalReplyCount
			}
			return page
		},
		empty: CommentPage{Comments: []Comment{}},
	})
}

// FetchRating returns the rating of the first item. No items is RatingNone.
func (c *Client) FetchRating(ctx context.Context, videoID string) (Rating, error) {
	params := url.Values{}
	params.Set("id", videoID)

	return get(ctx, c, request[ratingResponse, Rating]{
		endpoint: "get_rating",
		path:     "videos/getRating",
		params:   params,
		extract: func(resp ratingResponse) Rating {
			if len(resp.Items) == 0 || resp.Items[0].Rating == "" {
				return RatingNone
			}
			return Rating(resp.Items[0].Rating)
		},
		empty: RatingNone,
	})
}

// request describes one GET against the API. W is the wire envelope and T
// the value handed back to the caller.
type request[W, T any] struct {
	endpoint string // metrics and log label
	path     string // relative to /youtube/{version}/
	params   url.Values
	extract  func(W) T
	empty    T // returned on cancellation
}

// get performs r. It is a function rather than a method because methods
// cannot have type parameters.
func get[W, T any](ctx context.Context, c *Client, r request[W, T]) (T, error) {
	start := time.Now()

	params := url.Values{}
	for k, v := range r.params {
		params[k] = v
	}
	params.Set("key", c.apiKey)

	endpoint := c.baseURL + "/youtube/" + url.PathEscape(c.version) + "/" + r.path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		metrics.ObserveRemote(r.endpoint, metrics.OutcomeError, start)
		return r.empty, yterrors.InternalError("failed to build request", err).
			WithDetail("endpoint", r.endpoint)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return r.empty, c.transportError(ctx, r.endpoint, start, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil && isCanceled(ctx, readErr) {
			return r.empty, c.canceled(r.endpoint, start)
		}
		metrics.ObserveRemote(r.endpoint, metrics.OutcomeError, start)
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return r.empty, yterrors.APIError(resp.StatusCode, msg).
			WithDetail("endpoint", r.endpoint)
	}

	var wire W
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		if isCanceled(ctx, err) {
			return r.empty, c.canceled(r.endpoint, start)
		}
		metrics.ObserveRemote(r.endpoint, metrics.OutcomeError, start)
		return r.empty, yterrors.New(yterrors.ErrCodeAPIDecode,
			fmt.Sprintf("failed to decode %s response", r.endpoint), err).
			WithDetail("endpoint", r.endpoint)
	}

	metrics.ObserveRemote(r.endpoint, metrics.OutcomeOK, start)
	c.logger.Debug("remote_call_complete",
		slog.String("endpoint", r.endpoint),
		slog.Duration("duration", time.Since(start)))
	return r.extract(wire), nil
}

// transportError classifies a failed round trip.
func (c *Client) transportError(ctx context.Context, endpoint string, start time.Time, err error) error {
	if isCanceled(ctx, err) {
		return c.canceled(endpoint, start)
	}
	metrics.ObserveRemote(endpoint, metrics.OutcomeError, start)

	// url.Error embeds the full URL, API key included.
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return yterrors.New(yterrors.ErrCodeNetworkTimeout,
			fmt.Sprintf("%s request timed out", endpoint), err).
			WithDetail("endpoint", endpoint)
	}
	return yterrors.NetworkError(fmt.Sprintf("%s request failed", endpoint), err).
		WithDetail("endpoint", endpoint)
}

// canceled records a superseded call. It always returns nil.
func (c *Client) canceled(endpoint string, start time.Time) error {
	metrics.ObserveRemote(endpoint, metrics.OutcomeCanceled, start)
	c.logger.Debug("remote_call_canceled", slog.String("endpoint", endpoint))
	return nil
}

// isCanceled reports whether err stems from the caller canceling ctx.
// An expired deadline does not count.
func isCanceled(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return errors.Is(ctx.Err(), context.Canceled)
}
