// Package editor backs the admin markdown editor: it reports which toolbar styles
// are active around the caret and wraps selections in markup.
//
// Detection only looks at a window of text around the caret, so it can be wrong
// near window edges. It is not a markdown parser.
package editor

import (
	"regexp"
	"strings"
)

// Window is how many runes on each side of the caret are inspected.
const Window = 50

// ActiveStyles reports which toolbar buttons render as active.
type ActiveStyles struct {
	Bold           bool `json:"bold"`
	Italic         bool `json:"italic"`
	Underline      bool `json:"underline"`
	Blockquote     bool `json:"blockquote"`
	List           bool `json:"list"`
	Heading        bool `json:"heading"`
	Link           bool `json:"link"`
	Image          bool `json:"image"`
	Table          bool `json:"table"`
	HorizontalRule bool `json:"horizontalRule"`
	InlineCode     bool `json:"inlineCode"`
	CodeBlock      bool `json:"codeBlock"`
}

var (
	blockquoteRe = regexp.MustCompile(`^\s*>`)
	listRe       = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s`)
	headingRe    = regexp.MustCompile(`^#{1,6}\s`)
	tableRe      = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	ruleRe       = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
	fenceRe      = regexp.MustCompile("(?m)^\\s*```")

	linkTextBeforeRe  = regexp.MustCompile(`(^|[^!])\[[^\]\n]*$`)
	imageTextBeforeRe = regexp.MustCompile(`!\[[^\]\n]*$`)
	labelAfterRe      = regexp.MustCompile(`^[^\[\]\n]*\]\([^)\n]*\)`)
	linkURLBeforeRe   = regexp.MustCompile(`(^|[^!])\[[^\]\n]*\]\([^)\n]*$`)
	imageURLBeforeRe  = regexp.MustCompile(`!\[[^\]\n]*\]\([^)\n]*$`)
	urlAfterRe        = regexp.MustCompile(`^[^()\n]*\)`)
)

// DetectContext inspects the text around caret (a rune offset).
func DetectContext(text string, caret int) ActiveStyles {
	runes := []rune(text)
	caret = clamp(caret, 0, len(runes))
	before := string(runes[max(0, caret-Window):caret])
	after := string(runes[caret:min(len(runes), caret+Window)])

	lineBefore := before[strings.LastIndex(before, "\n")+1:]
	lineAfter := after
	if i := strings.Index(after, "\n"); i >= 0 {
		lineAfter = after[:i]
	}
	line := lineBefore + lineAfter

	var s ActiveStyles
	s.CodeBlock = len(fenceRe.FindAllStringIndex(before, -1))%2 == 1
	s.Bold = enclosed(before, after, "**", "**")
	s.Underline = enclosed(before, after, "<u>", "</u>")

	plainBefore := strings.ReplaceAll(lineBefore, "**", "")
	plainAfter := strings.ReplaceAll(lineAfter, "**", "")
	s.Italic = oddWithClose(plainBefore, plainAfter, "_") || oddWithClose(plainBefore, plainAfter, "*")

	codeBefore := strings.ReplaceAll(lineBefore, "```", "")
	codeAfter := strings.ReplaceAll(lineAfter, "```", "")
	s.InlineCode = oddWithClose(codeBefore, codeAfter, "`")

	s.Blockquote = blockquoteRe.MatchString(line)
	s.List = listRe.MatchString(line)
	s.Heading = headingRe.MatchString(line)
	s.Table = tableRe.MatchString(line)
	s.HorizontalRule = ruleRe.MatchString(line)

	s.Image = (imageTextBeforeRe.MatchString(lineBefore) && labelAfterRe.MatchString(lineAfter)) ||
		(imageURLBeforeRe.MatchString(lineBefore) && urlAfterRe.MatchString(lineAfter))
	s.Link = !s.Image && ((linkTextBeforeRe.MatchString(lineBefore) && labelAfterRe.MatchString(lineAfter)) ||
		(linkURLBeforeRe.MatchString(lineBefore) && urlAfterRe.MatchString(lineAfter)))
	return s
}

// enclosed reports whether an open marker precedes the caret without being closed
// and a close marker follows it.
func enclosed(before, after, open, close string) bool {
	if open == close {
		return strings.Count(before, open)%2 == 1 && strings.Contains(after, close)
	}
	lastOpen := strings.LastIndex(before, open)
	if lastOpen < 0 || strings.LastIndex(before, close) > lastOpen {
		return false
	}
	nextClose := strings.Index(after, close)
	if nextClose < 0 {
		return false
	}
	nextOpen := strings.Index(after, open)
	return nextOpen < 0 || nextOpen > nextClose
}

func oddWithClose(before, after, marker string) bool {
	return strings.Count(before, marker)%2 == 1 && strings.Contains(after, marker)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
