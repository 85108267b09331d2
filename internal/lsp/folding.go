package lsp

import (
	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/source"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params documentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(snap))
}

// buildFoldingRanges folds command lines continued over several physical
// lines and runs of two or more comment lines.
func buildFoldingRanges(snap *snapshot) []foldingRange {
	ranges := []foldingRange{}
	commentStart, commentEnd := -1, -1
	flush := func() {
		if commentStart >= 0 && commentEnd > commentStart {
			ranges = append(ranges, foldingRange{StartLine: commentStart, EndLine: commentEnd, Kind: "comment"})
		}
		commentStart, commentEnd = -1, -1
	}
	for _, line := range snap.doc.Lines {
		first, last := lineRange(snap.file, line.Span())
		switch l := line.(type) {
		case *ast.CommentLine:
			if commentStart < 0 {
				commentStart = first
			}
			commentEnd = last
			continue
		case *ast.CommandLine:
			flush()
			if l.Continued && last > first {
				ranges = append(ranges, foldingRange{StartLine: first, EndLine: last})
			}
			continue
		}
		flush()
	}
	flush()
	return ranges
}

// lineRange converts span into 0-based first and last line numbers.
func lineRange(file *source.File, span source.Span) (first, last int) {
	start, end := file.Resolve(span)
	return int(start.Line) - 1, int(end.Line) - 1
}
