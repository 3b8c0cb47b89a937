package mcp

import (
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// SearchInput defines the input schema for the search_videos tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"keywords to search for; may be empty"`
	Order string `json:"order,omitempty" jsonschema:"sort order: relevance, date or rating; default relevance"`
}

// VideoInput defines the input schema for tools that take one video.
type VideoInput struct {
	VideoID string `json:"video_id" jsonschema:"the video id, e.g. dQw4w9WgXcQ"`
}

// SearchOutput defines the output schema for the search_videos tool.
type SearchOutput struct {
	Query   string        `json:"query"`
	Order   string        `json:"order"`
	Count   int           `json:"count"`
	Results []VideoOutput `json:"results" jsonschema:"videos in the order the remote returned them"`
}

// VideoOutput is one search hit with markup reduced to plain text.
type VideoOutput struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	ChannelTitle  string          `json:"channel_title,omitempty"`
	PublishedAt   string          `json:"published_at,omitempty" jsonschema:"RFC 3339 publish time in UTC"`
	URL           string          `json:"url"`
	ThumbnailURL  string          `json:"thumbnail_url,omitempty"`
	TotalComments int             `json:"total_comments" jsonschema:"top-level threads plus their replies"`
	Comments      []CommentOutput `json:"comments"`
}

// CommentsOutput defines the output schema for the get_comments tool.
type CommentsOutput struct {
	VideoID       string          `json:"video_id"`
	TotalComments int             `json:"total_comments" jsonschema:"top-level threads plus their replies"`
	Comments      []CommentOutput `json:"comments"`
}

// CommentOutput is one top-level comment thread.
type CommentOutput struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Text        string `json:"text"`
	LikeCount   int    `json:"like_count"`
	ReplyCount  int    `json:"reply_count"`
	PublishedAt string `json:"published_at,omitempty"`
}

// RatingOutput defines the output schema for the get_rating tool.
type RatingOutput struct {
	VideoID string `json:"video_id"`
	Rating  string `json:"rating" jsonschema:"like, dislike, none or unspecified"`
	Score   int    `json:"score" jsonschema:"1 for like, -1 for dislike, otherwise 0"`
}

func toVideoOutput(r search.Result) VideoOutput {
	return VideoOutput{
		ID:            r.ID,
		Title:         youtube.PlainText(r.Title),
		Description:   youtube.PlainText(r.Description),
		ChannelTitle:  youtube.PlainText(r.ChannelTitle),
		PublishedAt:   formatTime(r.PublishedAt),
		URL:           r.WatchURL(),
		ThumbnailURL:  r.ThumbnailURL,
		TotalComments: r.TotalComments,
		Comments:      toCommentOutputs(r.Comments),
	}
}

func toCommentOutputs(comments []youtube.Comment) []CommentOutput {
	out := make([]CommentOutput, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentOutput{
			ID:          c.ID,
			Author:      c.Author,
			Text:        youtube.PlainText(c.Text),
			LikeCount:   c.LikeCount,
			ReplyCount:  c.ReplyCount,
			PublishedAt: formatTime(c.PublishedAt),
		})
	}
	return out
}
