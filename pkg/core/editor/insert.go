package editor

import (
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

// Markup is the prefix/suffix pair a toolbar action wraps around the selection.
type Markup struct {
	Prefix string
	Suffix string
}

// Toolbar maps button names to their markup.
var Toolbar = map[string]Markup{
	"bold":        {Prefix: "**", Suffix: "**"},
	"italic":      {Prefix: "_", Suffix: "_"},
	"underline":   {Prefix: "<u>", Suffix: "</u>"},
	"strike":      {Prefix: "~~", Suffix: "~~"},
	"code":        {Prefix: "`", Suffix: "`"},
	"codeBlock":   {Prefix: "```\n", Suffix: "\n```"},
	"link":        {Prefix: "[", Suffix: "](url)"},
	"image":       {Prefix: "![", Suffix: "](url)"},
	"quote":       {Prefix: "> "},
	"list":        {Prefix: "- "},
	"orderedList": {Prefix: "1. "},
	"heading":     {Prefix: "## "},
	"rule":        {Prefix: "\n---\n"},
	"table":       {Prefix: "| Column | Column |\n| --- | --- |\n| ", Suffix: " | |"},
}

// Edit is the result of applying markup: the new text and where the caret goes.
type Edit struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
}

// Wrap surrounds text[start:end] (rune offsets) with prefix and suffix. The caret
// lands at start+len(prefix)+len(selection), i.e. just before the suffix, so typing
// right after wrapping an empty selection goes between the markers.
func Wrap(text string, start, end int, prefix, suffix string) Edit {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if start > end {
		start, end = end, start
	}
	selection := string(runes[start:end])

	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString(prefix)
	b.WriteString(selection)
	b.WriteString(suffix)
	b.WriteString(string(runes[end:]))

	caret := start + len([]rune(prefix)) + len([]rune(selection))
	return Edit{Text: b.String(), SelectionStart: caret, SelectionEnd: caret}
}

// Apply runs a named toolbar action.
func Apply(text string, start, end int, action string) (Edit, error) {
	markup, ok := Toolbar[action]
	if !ok {
		return Edit{}, &domain.ValidationError{Field: "action", Reason: fmt.Sprintf("unknown toolbar action %q", action)}
	}
	return Wrap(text, start, end, markup.Prefix, markup.Suffix), nil
}

// Insert types s at the caret, the way a keystroke after Wrap would.
func Insert(e Edit, s string) Edit {
	return Wrap(e.Text, e.SelectionStart, e.SelectionEnd, s, "")
}
