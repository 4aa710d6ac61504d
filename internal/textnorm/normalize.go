// Package textnorm prepares raw PDF-extracted text for prompting.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize strips every character at or above code point 128, then collapses
// whitespace runs (including newlines) to single spaces. Non-ASCII whitespace
// (NBSP and friends) becomes a plain space first so it keeps separating the
// words around it. The result is a single-line ASCII string; empty input
// yields empty output.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r < 128:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	// Fields splits on any whitespace run, so joining also removes the gaps
	// left behind by stripped characters.
	return strings.Join(strings.Fields(b.String()), " ")
}
