package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"bazelrc-lsp/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// lineBounds returns the offsets of the 0-based line, newline excluded.
func lineBounds(file *source.File, line int) (start, end uint32) {
	end = file.Len()
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	return file.LineStart(line), end
}

func offsetForPositionInFile(file *source.File, pos position, enc posEncoding) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line > len(file.LineIdx) {
		return file.Len()
	}
	off, lineEnd := lineBounds(file, pos.Line)
	units := 0
	for off < lineEnd && units < pos.Character {
		r, size := utf8.DecodeRune(file.Content[off:lineEnd])
		need := enc.units(r, size)
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

func positionForOffsetInFile(file *source.File, offset uint32, enc posEncoding) position {
	if file == nil {
		return position{}
	}
	offset = min(offset, file.Len())
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	units := 0
	for off := file.LineStart(line); off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += enc.units(r, size)
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span, enc posEncoding) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start, enc),
		End:   positionForOffsetInFile(file, span.End, enc),
	}
}

func spanForRange(file *source.File, r lspRange, enc posEncoding) source.Span {
	start := offsetForPositionInFile(file, r.Start, enc)
	end := offsetForPositionInFile(file, r.End, enc)
	return source.Span{File: file.ID, Start: start, End: max(start, end)}
}
