package lexer

import (
	"strings"

	"bazelrc-lsp/internal/source"
)

// Segment records that the original bytes Orig were copied verbatim to the
// logical text starting at offset Logical.
type Segment struct {
	Orig    source.Span
	Logical uint32
}

// LogicalLine is one or more physical lines joined by backslash continuation.
type LogicalLine struct {
	Text     string
	Segments []Segment
	// Span covers the original bytes without the terminating newline.
	Span source.Span
	// Extent additionally covers the terminating newline, if any.
	Extent source.Span
	// First is the 0-based number of the first physical line.
	First    int
	Physical int
}

// Join splits the file into logical lines. A physical line continues onto the
// next one iff, after trimming trailing blanks, it ends in an odd number of
// backslashes. The joining backslash, any blanks after it and the newline
// contribute nothing to the logical text.
func Join(f *source.File) []LogicalLine {
	c := NewCursor(f)
	content := f.Content
	lines := make([]LogicalLine, 0, len(f.LineIdx)+1)
	physical := 0

	for !c.EOF() {
		ll := LogicalLine{First: physical}
		var text strings.Builder
		start := c.Mark()
		for {
			lineStart := c.Off
			contentEnd := c.SkipLine()
			physical++
			ll.Physical++
			if contentEnd > lineStart && content[contentEnd-1] == '\r' {
				contentEnd--
			}

			trimmed := contentEnd
			for trimmed > lineStart && isBlank(content[trimmed-1]) {
				trimmed--
			}
			slashes := uint32(0)
			for trimmed-slashes > lineStart && content[trimmed-slashes-1] == '\\' {
				slashes++
			}
			continued := slashes%2 == 1

			segEnd := contentEnd
			if continued {
				segEnd = trimmed - 1
			}
			ll.Segments = append(ll.Segments, Segment{
				Orig:    source.Span{File: f.ID, Start: lineStart, End: segEnd},
				Logical: uint32(text.Len()),
			})
			text.Write(content[lineStart:segEnd])

			hasNewline := c.Eat('\n')
			if !continued || !hasNewline {
				ll.Span = source.Span{File: f.ID, Start: uint32(start), End: contentEnd}
				ll.Extent = c.SpanFrom(start)
				break
			}
		}
		ll.Text = text.String()
		lines = append(lines, ll)
	}
	return lines
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// Orig maps the logical offset of an existing byte to its original offset.
func (l *LogicalLine) Orig(off uint32) uint32 {
	for _, seg := range l.Segments {
		if off >= seg.Logical && off < seg.Logical+seg.Orig.Len() {
			return seg.Orig.Start + (off - seg.Logical)
		}
	}
	return l.Span.End
}

// OrigEnd maps an exclusive logical end offset to an exclusive original offset.
func (l *LogicalLine) OrigEnd(off uint32) uint32 {
	if off == 0 {
		return l.Span.Start
	}
	return l.Orig(off-1) + 1
}

// HasBreak reports whether a physical line boundary lies in the logical
// range [from, to].
func (l *LogicalLine) HasBreak(from, to uint32) bool {
	for _, seg := range l.Segments[1:] {
		if seg.Logical >= from && seg.Logical <= to {
			return true
		}
	}
	return false
}

// BreaksIn returns the physical line boundaries inside the logical range
// [from, to], relative to from.
func (l *LogicalLine) BreaksIn(from, to uint32) []int {
	var out []int
	for _, seg := range l.Segments[1:] {
		if seg.Logical >= from && seg.Logical <= to {
			out = append(out, int(seg.Logical-from))
		}
	}
	return out
}
