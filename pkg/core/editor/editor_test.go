package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// caretAt strips the single '|' from s and returns the text and its rune offset.
func caretAt(s string) (string, int) {
	i := strings.Index(s, "|")
	return s[:i] + s[i+1:], len([]rune(s[:i]))
}

func TestDetectContext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(ActiveStyles) bool
	}{
		{"bold", "some **bo|ld** text", func(s ActiveStyles) bool { return s.Bold && !s.Italic }},
		{"outside bold", "some **bold** te|xt", func(s ActiveStyles) bool { return !s.Bold }},
		{"italic underscore", "an _ita|lic_ word", func(s ActiveStyles) bool { return s.Italic }},
		{"italic asterisk", "an *ita|lic* word", func(s ActiveStyles) bool { return s.Italic && !s.Bold }},
		{"underline", "x <u>und|er</u> y", func(s ActiveStyles) bool { return s.Underline }},
		{"closed underline", "x <u>under</u> y|", func(s ActiveStyles) bool { return !s.Underline }},
		{"blockquote", "para\n> quo|ted", func(s ActiveStyles) bool { return s.Blockquote }},
		{"list", "- it|em", func(s ActiveStyles) bool { return s.List }},
		{"ordered list", "12. it|em", func(s ActiveStyles) bool { return s.List }},
		{"heading", "## Tit|le\nbody", func(s ActiveStyles) bool { return s.Heading }},
		{"not heading", "#hashtag|", func(s ActiveStyles) bool { return !s.Heading }},
		{"link text", "see [the do|cs](https://x.dev) now", func(s ActiveStyles) bool { return s.Link && !s.Image }},
		{"link url", "see [docs](https://x|.dev) now", func(s ActiveStyles) bool { return s.Link }},
		{"image", "![alt te|xt](a.png)", func(s ActiveStyles) bool { return s.Image && !s.Link }},
		{"table", "| a | b|ee |", func(s ActiveStyles) bool { return s.Table }},
		{"rule", "---|", func(s ActiveStyles) bool { return s.HorizontalRule }},
		{"inline code", "run `go te|st` now", func(s ActiveStyles) bool { return s.InlineCode }},
		{"fenced code", "```go\nfmt.Pri|ntln()\n```", func(s ActiveStyles) bool { return s.CodeBlock && !s.InlineCode }},
		{"after fence", "```go\nx\n```\nplain|", func(s ActiveStyles) bool { return !s.CodeBlock }},
		{"plain", "just| text", func(s ActiveStyles) bool { return s == ActiveStyles{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, caret := caretAt(tt.input)
			got := DetectContext(text, caret)
			assert.True(t, tt.check(got), "styles: %+v", got)
		})
	}
}

func TestDetectContext_WindowIsLocal(t *testing.T) {
	// the opening marker sits outside the 50 rune window
	text := "**" + strings.Repeat("a", 60) + "b**"
	assert.False(t, DetectContext(text, 62).Bold)
	assert.True(t, DetectContext(text, 40).Bold)
}

func TestDetectContext_ClampsCaret(t *testing.T) {
	assert.NotPanics(t, func() {
		DetectContext("short", -4)
		DetectContext("short", 400)
		DetectContext("", 0)
	})
}

func TestWrap(t *testing.T) {
	e := Wrap("hello world", 6, 11, "**", "**")
	assert.Equal(t, "hello **world**", e.Text)
	assert.Equal(t, 13, e.SelectionStart)
	assert.Equal(t, 13, e.SelectionEnd)

	// inverted and out-of-range selections are normalized
	e = Wrap("abc", 99, 1, "_", "_")
	assert.Equal(t, "a_bc_", e.Text)
	assert.Equal(t, 4, e.SelectionStart)
}

func TestWrap_RuneOffsets(t *testing.T) {
	e := Wrap("héllo", 1, 2, "**", "**")
	assert.Equal(t, "h**é**llo", e.Text)
	assert.Equal(t, 4, e.SelectionStart)
}

func TestBoldThenType(t *testing.T) {
	e, err := Apply("hello ", 6, 6, "bold")
	require.NoError(t, err)
	assert.Equal(t, "hello ****", e.Text)
	assert.Equal(t, 8, e.SelectionStart)

	e = Insert(e, "x")
	assert.Equal(t, "hello **x**", e.Text)
	assert.True(t, DetectContext(e.Text, 8).Bold)
}

func TestApply_UnknownAction(t *testing.T) {
	_, err := Apply("x", 0, 0, "blink")
	assert.Error(t, err)
}

func TestHighlight(t *testing.T) {
	h := NewHighlighter("github")
	out, err := h.Highlight("# Title\n\n**bold** and `code`")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "class=")

	css, err := h.CSS()
	require.NoError(t, err)
	assert.NotEmpty(t, css)
}
