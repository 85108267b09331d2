package diagfmt

import (
	"fmt"
	"strings"

	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the whole lines touched by edit before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if edit.Span.End < edit.Span.Start || edit.Span.End > file.Len() {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	startPos, endPos := file.Resolve(edit.Span)
	blockStart := file.LineStart(int(startPos.Line) - 1)
	blockEnd := file.Len()
	if idx := int(endPos.Line) - 1; idx < len(file.LineIdx) {
		blockEnd = file.LineIdx[idx]
	}
	blockEnd = max(blockEnd, blockStart)

	original := string(file.Content[blockStart:blockEnd])
	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)
	if relEnd > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span end %d out of range for preview block", relEnd)
	}
	after := original[:relStart] + edit.NewText + original[relEnd:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
