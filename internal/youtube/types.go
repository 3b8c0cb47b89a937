package youtube

import (
	"fmt"
	"strings"
	"time"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
)

// SortOrder is the ordering requested from the search endpoint.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
	SortRating    SortOrder = "rating"
)

// SortOrders lists every supported order, default first.
var SortOrders = []SortOrder{SortRelevance, SortDate, SortRating}

// ParseSortOrder parses a sort key. An empty string means SortRelevance.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortDate:
		return SortDate, nil
	case SortRating:
		return SortRating, nil
	}
	return "", yterrors.New(yterrors.ErrCodeInvalidSort,
		fmt.Sprintf("unknown sort order %q", s), nil).
		WithSuggestion("Use one of: relevance, date, rating")
}

// Next cycles through SortOrders.
func (s SortOrder) Next() SortOrder {
	for i, o := range SortOrders {
		if o == s {
			return SortOrders[(i+1)%len(SortOrders)]
		}
	}
	return SortRelevance
}

// Video is one search hit. Title and Description are platform text and may
// contain entities or markup; see PlainText.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ChannelTitle string    `json:"channel_title"`
}

// WatchURL is the public page for the video.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// Comment is a top-level comment thread. It is passed through untouched
// apart from flattening the wire envelope.
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   int       `json:"like_count"`
	ReplyCount  int       `json:"reply_count"`
	PublishedAt time.Time `json:"published_at"`
}

// CommentPage is the first page of comment threads for a video.
// TotalComments counts top-level threads plus all of their replies.
type CommentPage struct {
	Comments      []Comment `json:"comments"`
	TotalComments int       `json:"total_comments"`
}

// Rating is the authorised user's rating of a video.
type Rating string

const (
	RatingLike        Rating = "like"
	RatingDislike     Rating = "dislike"
	RatingNone        Rating = "none"
	RatingUnspecified Rating = "unspecified"
)

// Score maps the rating onto a number: like 1, dislike -1, anything else 0.
func (r Rating) Score() int {
	switch r {
	case RatingLike:
		return 1
	case RatingDislike:
		return -1
	default:
		return 0
	}
}

// ValidateVideoID rejects IDs that cannot name a video.
func ValidateVideoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return yterrors.New(yterrors.ErrCodeInvalidVideoID, "video id is empty", nil)
	}
	for _, r := range id {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return yterrors.New(yterrors.ErrCodeInvalidVideoID,
				fmt.Sprintf("video id %q contains %q", id, r), nil)
		}
	}
	return nil
}
