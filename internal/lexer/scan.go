package lexer

import (
	"fmt"

	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/token"
)

// Error describes bytes of a logical line that cannot be tokenized.
type Error struct {
	Span   source.Span
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Reason)
}

// Scan splits a logical line into words and an optional trailing comment,
// following Bazel's rc file rules: blanks separate words, single and double
// quotes group blanks and '#' into a word, a backslash takes the next byte
// literally, and an unquoted '#' starts a comment even in the middle of a word.
func Scan(l *LogicalLine) (words []token.Token, comment *token.Token, err *Error) {
	s := l.Text
	n := uint32(len(s))
	i := uint32(0)
	for {
		for i < n && isBlank(s[i]) {
			i++
		}
		if i >= n {
			return words, nil, nil
		}
		if s[i] == '#' {
			return words, scanComment(l, i), nil
		}

		tok, next, scanErr := scanWord(l, i)
		if scanErr != nil {
			return words, nil, scanErr
		}
		words = append(words, tok)
		i = next
	}
}

func scanWord(l *LogicalLine, start uint32) (token.Token, uint32, *Error) {
	s := l.Text
	n := uint32(len(s))
	text := make([]byte, 0, 16)
	offs := make([]uint32, 0, 16)
	quoted := false
	take := func(at uint32) {
		text = append(text, s[at])
		offs = append(offs, l.Orig(at))
	}

	i := start
loop:
	for i < n {
		c := s[i]
		switch {
		case isBlank(c), c == '#':
			break loop
		case c == '\\':
			if i+1 >= n {
				return token.Token{}, n, l.errorAt(i, n, "dangling escape at end of line")
			}
			take(i + 1)
			i += 2
		case c == '"' || c == '\'':
			quoted = true
			open := i
			i++
			for i < n && s[i] != c {
				if s[i] == '\\' {
					if i+1 >= n {
						i = n
						break
					}
					i++
				}
				take(i)
				i++
			}
			if i >= n {
				return token.Token{}, n, l.errorAt(open, n, fmt.Sprintf("unterminated %s quote", quoteName(c)))
			}
			i++ // closing quote
		default:
			take(i)
			i++
		}
	}

	tok := token.Token{
		Kind:   token.Word,
		Text:   string(text),
		Quoted: quoted,
		Offs:   offs,
		LStart: start,
		LEnd:   i,
		Span: source.Span{
			File:  l.Span.File,
			Start: l.Orig(start),
			End:   l.OrigEnd(i),
		},
	}
	return tok, i, nil
}

func scanComment(l *LogicalLine, hash uint32) *token.Token {
	n := uint32(len(l.Text))
	return &token.Token{
		Kind:   token.Comment,
		Text:   l.Text[hash+1:],
		LStart: hash,
		LEnd:   n,
		Breaks: l.BreaksIn(hash+1, n),
		Span: source.Span{
			File:  l.Span.File,
			Start: l.Orig(hash),
			End:   l.Span.End,
		},
	}
}

func (l *LogicalLine) errorAt(from, to uint32, reason string) *Error {
	return &Error{
		Span: source.Span{
			File:  l.Span.File,
			Start: l.Orig(from),
			End:   l.OrigEnd(to),
		},
		Reason: reason,
	}
}

func quoteName(c byte) string {
	if c == '\'' {
		return "single"
	}
	return "double"
}
