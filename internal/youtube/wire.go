package youtube

import "time"

// Response envelopes as returned by the Data API. Only the fields ytsearch
// reads are declared.

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		PublishedAt  time.Time            `json:"publishedAt"`
		Title        string               `json:"title"`
		Description  string               `json:"description"`
		ChannelTitle string               `json:"channelTitle"`
		Thumbnails   map[string]thumbnail `json:"thumbnails"`
	} `json:"snippet"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type commentThreadsResponse struct {
	Items []commentThread `json:"items"`
}

type commentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		TopLevelComment struct {
			ID      string `json:"id"`
			Snippet struct {
				AuthorDisplayName string    `json:"authorDisplayName"`
				TextDisplay       string    `json:"textDisplay"`
				TextOriginal      string    `json:"textOriginal"`
				LikeCount         int       `json:"likeCount"`
				PublishedAt       time.Time `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
		TotalReplyCount int `json:"totalReplyCount"`
	} `json:"snippet"`
}

type ratingResponse struct {
	Items []struct {
		VideoID string `json:"videoId"`
		Rating  string `json:"rating"`
	} `json:"items"`
}

func (it searchItem) video() Video {
	return Video{
		ID:           it.ID.VideoID,
		Title:        it.Snippet.Title,
		Description:  it.Snippet.Description,
		PublishedAt:  it.Snippet.PublishedAt,
		ThumbnailURL: pickThumbnail(it.Snippet.Thumbnails),
		ChannelTitle: it.Snippet.ChannelTitle,
	}
}

// pickThumbnail prefers the medium rendition.
func pickThumbnail(thumbs map[string]thumbnail) string {
	for _, size := range []string{"medium", "high", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (ct commentThread) comment() Comment {
	top := ct.Snippet.TopLevelComment
	text := top.Snippet.TextOriginal
	if text == "" {
		text = top.Snippet.TextDisplay
	}
	id := top.ID
	if id == "" {
		id = ct.ID
	}
	return Comment{
		ID:          id,
		Author:      top.Snippet.AuthorDisplayName,
		Text:        text,
		LikeCount:   top.Snippet.LikeCount,
		ReplyCount:  ct.Snippet.TotalReplyCount,
		PublishedAt: top.Snippet.PublishedAt,
	}
}
