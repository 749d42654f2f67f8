package editor

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders the syntax-colored overlay shown behind the textarea.
type Highlighter struct {
	lexer     chroma.Lexer
	formatter *html.Formatter
	style     *chroma.Style
}

func NewHighlighter(styleName string) *Highlighter {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		formatter: html.New(html.WithClasses(true), html.PreventSurroundingPre(true)),
		style:     styles.Get(styleName),
	}
}

func (h *Highlighter) Highlight(text string) (string, error) {
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenise markdown: %w", err)
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("format markdown: %w", err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet for the class names Highlight emits.
func (h *Highlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
