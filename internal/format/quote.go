package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quote renders tok so that the lexer reads it back as tok. Plain tokens are
// left alone; anything with blanks, quotes, backslashes, `#` or control
// characters is double-quoted.
func Quote(tok string) string {
	if tok == "" {
		return `""`
	}
	if !needsQuote(tok) {
		return tok
	}
	var b strings.Builder
	b.Grow(len(tok) + 2)
	b.WriteByte('"')
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c == '\\' || c == '"' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuote(tok string) bool {
	for _, r := range tok {
		switch {
		case r == '"', r == '\'', r == '\\', r == '#':
			return true
		case r < utf8.RuneSelf:
			if r <= ' ' || r == 0x7f {
				return true
			}
		case r == utf8.RuneError:
			return true
		default:
			if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
				return true
			}
		}
	}
	return false
}
