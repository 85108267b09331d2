package format

import (
	"bazelrc-lsp/internal/source"
)

// continuation ends a physical line inside a logical one.
const continuation = " \\\n    "

// Writer accumulates formatted output.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with room for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteString writes a string to the output.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteByte writes a single byte to the output.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Break writes a line continuation, or a space when cont is false.
func (w *Writer) Break(cont bool) {
	if cont {
		w.WriteString(continuation)
		return
	}
	w.Space()
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) == 0 || w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

// CopySpan copies a span of sf to the output.
func (w *Writer) CopySpan(sf *source.File, sp source.Span) {
	if sf == nil || sp.File != sf.ID {
		return
	}
	w.CopyRange(sf, int(sp.Start), int(sp.End))
}

// CopyRange copies a range of bytes of sf to the output.
func (w *Writer) CopyRange(sf *source.File, start, end int) {
	start = clampToContent(start, len(sf.Content))
	end = clampToContent(end, len(sf.Content))
	if start >= end {
		return
	}
	w.buf = append(w.buf, sf.Content[start:end]...)
}

func clampToContent(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
