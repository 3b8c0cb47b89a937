package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"entities", "Tom &amp; Jerry &#39;classic&#39; &quot;cut&quot;", `Tom & Jerry 'classic' "cut"`},
		{"tags dropped", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"script removed", "a<script>alert(1)</script>b", "ab"},
		{"escape sequences removed", "red\x1b[31mtext\x07", "red[31mtext"},
		{"whitespace collapsed", "  lots   of\t\tspace  ", "lots of space"},
		{"blank lines squeezed", "a<p>b</p><p></p><p>c</p>", "a\nb\n\nc"},
		{"bare angle bracket", "1 < 2", "1 < 2"},
		{"zero width", "a\u200bb", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
	assert.Equal(t, "ab…", Truncate("ab cdef", 4))
	assert.Equal(t, "…", Truncate("abc", 1))
	assert.Equal(t, "", Truncate("abc", 0))
}
