package ai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize strips parenthetical annotations (transliterations, phonetics)
// and trims the result.
// Groups are assumed not to be nested; stray brackets are dropped too.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			end := strings.IndexByte(s[i+1:], ')')
			if end < 0 {
				// unclosed group, drop the bracket only
				continue
			}
			next := i + 1 + end + 1
			for next < len(s) {
				r, size := utf8.DecodeRuneInString(s[next:])
				if !unicode.IsSpace(r) {
					break
				}
				next += size
			}
			trimTrailingSpace(&b)
			if b.Len() > 0 && next < len(s) {
				if r, _ := utf8.DecodeRuneInString(s[next:]); isWordRune(r) {
					b.WriteByte(' ')
				}
			}
			i = next - 1
		case ')':
		default:
			// bytes are copied as is, invalid UTF-8 included
			b.WriteByte(s[i])
		}
	}
	return strings.TrimSpace(b.String())
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func trimTrailingSpace(b *strings.Builder) {
	s := b.String()
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	if len(trimmed) != len(s) {
		b.Reset()
		b.WriteString(trimmed)
	}
}
