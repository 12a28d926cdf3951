// Package textnorm canonicalizes document and script text before it is
// indexed, embedded or compared: NFKC normalization, line-ending
// canonicalization and whitespace/control-character collapsing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC normalization, folds CRLF/CR to LF, keeps tab
// and newline as-is, collapses each run of other whitespace runes to a
// single space, and drops every rune in the Unicode "control" (Cc) and
// "format" (Cf) categories other than the preserved tab/newline.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
			lastSpace = false
		case unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r):
			// drop
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return b.String()
}
