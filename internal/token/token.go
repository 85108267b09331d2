package token

import (
	"strings"

	"bazelrc-lsp/internal/source"
)

// Token is one word or comment of a logical line.
//
// Text is the unescaped value: quotes and escaping backslashes are removed and
// joined continuation lines contribute nothing. Span covers the raw bytes in
// the original file. Offs maps every byte of Text back to its original offset,
// since quoting changes lengths in ways no formula can undo.
type Token struct {
	Kind   Kind
	Span   source.Span
	Text   string
	Quoted bool
	Offs   []uint32

	// Logical offsets of the raw token within its logical line.
	LStart uint32
	LEnd   uint32

	// Breaks lists the indexes into Text where a physical line ended.
	// Only comments record them.
	Breaks []int
}

// SpanOf returns the original span covering Text[i:j].
func (t Token) SpanOf(i, j int) source.Span {
	if len(t.Offs) == 0 || i >= j {
		off := t.Span.End
		if i < len(t.Offs) {
			off = t.Offs[i]
		}
		return t.Span.At(off)
	}
	if j > len(t.Offs) {
		j = len(t.Offs)
	}
	start := t.Offs[i]
	if i == 0 {
		start = t.Span.Start
	}
	end := t.Offs[j-1] + 1
	if j == len(t.Offs) {
		end = t.Span.End
	}
	return source.Span{File: t.Span.File, Start: start, End: end}
}

// Cut splits the token at the first unescaped-text occurrence of sep.
// The separator byte belongs to neither half; head ends right before it and
// tail starts right after it in original coordinates.
func (t Token) Cut(sep byte) (head, tail Token, ok bool) {
	i := strings.IndexByte(t.Text, sep)
	if i < 0 {
		return t, Token{}, false
	}
	sepOff := t.Offs[i]
	head = Token{
		Kind:   t.Kind,
		Text:   t.Text[:i],
		Quoted: t.Quoted,
		Offs:   t.Offs[:i],
		Span:   source.Span{File: t.Span.File, Start: t.Span.Start, End: sepOff},
		LStart: t.LStart,
		LEnd:   t.LEnd,
	}
	tail = Token{
		Kind:   t.Kind,
		Text:   t.Text[i+1:],
		Quoted: t.Quoted,
		Offs:   t.Offs[i+1:],
		Span:   source.Span{File: t.Span.File, Start: sepOff + 1, End: t.Span.End},
		LStart: t.LStart,
		LEnd:   t.LEnd,
	}
	if tail.Span.Start > tail.Span.End {
		tail.Span.Start = tail.Span.End
	}
	return head, tail, true
}

// Parts splits a comment at its recorded physical line breaks.
func (t Token) Parts() []string {
	if len(t.Breaks) == 0 {
		return []string{t.Text}
	}
	parts := make([]string, 0, len(t.Breaks)+1)
	prev := 0
	for _, b := range t.Breaks {
		parts = append(parts, t.Text[prev:b])
		prev = b
	}
	return append(parts, t.Text[prev:])
}
