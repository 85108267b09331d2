package lexer

import (
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/token"
)

// Line is a tokenized logical line.
type Line struct {
	Logical LogicalLine
	Words   []token.Token
	Comment *token.Token
	Err     *Error
}

// Lexer hands out tokenized logical lines of one file.
type Lexer struct {
	file  *source.File
	lines []LogicalLine
	next  int
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:  file,
		lines: Join(file),
	}
}

// Next returns the next logical line; ok is false after the last one.
func (lx *Lexer) Next() (line Line, ok bool) {
	if lx.next >= len(lx.lines) {
		return Line{}, false
	}
	ll := lx.lines[lx.next]
	lx.next++
	words, comment, err := Scan(&ll)
	return Line{Logical: ll, Words: words, Comment: comment, Err: err}, true
}

// Len returns the number of logical lines.
func (lx *Lexer) Len() int {
	return len(lx.lines)
}
