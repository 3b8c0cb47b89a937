package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

const (
	minWidth        = 40
	descriptionRows = 2
)

// FormatDate renders a publish date in UTC, or "unknown" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("2 Jan 2006")
}

// CommentCount renders a comment total with the right plural.
func CommentCount(n int) string {
	if n == 1 {
		return "1 comment"
	}
	return fmt.Sprintf("%d comments", n)
}

// RenderResult renders one result as a block of lines no wider than width.
// Platform text goes through youtube.PlainText.
func RenderResult(r search.Result, width int, st Styles) string {
	if width < minWidth {
		width = minWidth
	}
	inner := width - 2

	var lines []string
	lines = append(lines, st.Title.Render(youtube.Truncate(youtube.PlainText(r.Title), width)))

	meta := []string{FormatDate(r.PublishedAt), CommentCount(r.TotalComments)}
	if r.ChannelTitle != "" {
		meta = append([]string{youtube.PlainText(r.ChannelTitle)}, meta...)
	}
	lines = append(lines, "  "+st.Meta.Render(youtube.Truncate(strings.Join(meta, " • "), inner)))

	shown := 0
	for _, row := range strings.Split(youtube.PlainText(r.Description), "\n") {
		if shown == descriptionRows {
			break
		}
		if row == "" {
			continue
		}
		lines = append(lines, "  "+st.Body.Render(youtube.Truncate(row, inner)))
		shown++
	}

	lines = append(lines, "  "+st.Link.Render(youtube.Truncate(r.WatchURL(), inner)))
	if r.ThumbnailURL != "" {
		lines = append(lines, "  "+st.Dim.Render(youtube.Truncate("thumbnail "+r.ThumbnailURL, inner)))
	}
	return strings.Join(lines, "\n")
}

// RenderResults renders a list of results separated by blank lines.
func RenderResults(results []search.Result, width int, st Styles) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = RenderResult(r, width, st)
	}
	return strings.Join(blocks, "\n\n")
}

// RenderComment renders a single comment thread.
func RenderComment(c youtube.Comment, width int, st Styles) string {
	if width < minWidth {
		width = minWidth
	}
	head := youtube.PlainText(c.Author)
	if head == "" {
		head = "(anonymous)"
	}
	meta := []string{FormatDate(c.PublishedAt)}
	if c.ReplyCount > 0 {
		meta = append(meta, fmt.Sprintf("%d replies", c.ReplyCount))
	}
	if c.LikeCount > 0 {
		meta = append(meta, fmt.Sprintf("%d likes", c.LikeCount))
	}

	lines := []string{st.Title.Render(head) + " " + st.Meta.Render(strings.Join(meta, " • "))}
	for _, row := range strings.Split(youtube.PlainText(c.Text), "\n") {
		if row == "" {
			continue
		}
		lines = append(lines, "  "+st.Body.Render(youtube.Truncate(row, width-2)))
	}
	return strings.Join(lines, "\n")
}
