package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// plainWidth is the line width used when the output is not a terminal.
const plainWidth = 100

// PlainRenderer writes results as text (for one-shot commands, pipes, CI).
type PlainRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
	width  int
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{
		out:    cfg.Output,
		styles: cfg.Styles(),
		width:  plainWidth,
	}
}

// Results writes a header line and every result.
func (r *PlainRenderer) Results(query string, order youtube.SortOrder, results []search.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render(
		fmt.Sprintf("%d results for %q (%s)", len(results), query, order)))
	if len(results) == 0 {
		return
	}
	_, _ = fmt.Fprintln(r.out, RenderResults(results, r.width, r.styles))
}

// Comments writes a video's comment threads.
func (r *PlainRenderer) Comments(videoID string, page youtube.CommentPage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "%s\n", r.styles.Header.Render(
		fmt.Sprintf("%s on %s (%d threads shown)", CommentCount(page.TotalComments), videoID, len(page.Comments))))
	for _, c := range page.Comments {
		_, _ = fmt.Fprintf(r.out, "\n%s\n", RenderComment(c, r.width, r.styles))
	}
}

// Rating writes a video's rating and its score.
func (r *PlainRenderer) Rating(videoID string, rating youtube.Rating) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.Label.Render(videoID+":"),
		r.styles.Active.Render(string(rating)),
		r.styles.Meta.Render(fmt.Sprintf("(score %+d)", rating.Score())))
}
