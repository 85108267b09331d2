package source

import (
	"fmt"
)

type (
	// FileID identifies a file within its FileSet.
	FileID uint32
	// FileFlags records how a file's content was obtained and cleaned up.
	FileFlags uint8
)

const (
	// FileVirtual marks content that has no file on disk: editor buffers,
	// standard input and test fixtures.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one bazelrc buffer. LineIdx holds the offset of every newline.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Span is the byte range [Start, End) of a file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover grows s to include other. Spans of other files are ignored.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// Contains reports whether off lies in [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Touches reports whether off lies in [Start, End], so a cursor right
// after a flag name still belongs to it.
func (s Span) Touches(off uint32) bool {
	return off >= s.Start && off <= s.End
}

// Intersects reports whether two spans share at least one byte. An empty
// span intersects a span that touches its offset.
func (s Span) Intersects(other Span) bool {
	switch {
	case s.File != other.File:
		return false
	case s.Empty():
		return other.Touches(s.Start)
	case other.Empty():
		return s.Touches(other.Start)
	}
	return s.Start < other.End && other.Start < s.End
}

// At returns an empty span at off in the same file.
func (s Span) At(off uint32) Span {
	return Span{File: s.File, Start: off, End: off}
}
