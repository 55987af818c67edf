package htmlutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements end a line of text when opened or closed.
var blockElements = map[atom.Atom]struct{}{
	atom.P:          {},
	atom.Div:        {},
	atom.Br:         {},
	atom.Li:         {},
	atom.Ul:         {},
	atom.Ol:         {},
	atom.Blockquote: {},
	atom.H1:         {},
	atom.H2:         {},
	atom.H3:         {},
	atom.H4:         {},
	atom.H5:         {},
	atom.H6:         {},
	atom.Tr:         {},
}

// skippedElements have content that is never visible text.
var skippedElements = map[atom.Atom]struct{}{
	atom.Script: {},
	atom.Style:  {},
}

// StripTags removes all HTML tags from a string, decodes entities and
// normalizes whitespace. Block-level elements become line breaks so paragraph
// structure survives.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a malformed remainder, which is dropped.
			break
		}

		switch tt {
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if _, ok := skippedElements[a]; ok {
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}
			if _, ok := blockElements[a]; ok {
				b.WriteByte('\n')
			}
		}
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Excerpt returns the plain text of s flattened to a single line and cut at a
// word boundary so it's at most maxRunes long, ellipsis included.
func Excerpt(s string, maxRunes int) string {
	text := strings.Join(strings.Fields(StripTags(s)), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes-1])
	if runes[maxRunes-1] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
