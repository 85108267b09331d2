package lsp

import (
	"bazelrc-lsp/internal/format"
)

const errParseErrors = "Formatting can only be applied if there are no parsing errors"

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params formattingParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendError(msg.ID, codeInvalidParams, "unknown document")
	}
	if snap.hasParseErrors() {
		return s.sendError(msg.ID, codeRequestFailed, errParseErrors)
	}
	return s.sendResponse(msg.ID, buildFormatting(snap))
}

func (s *Server) handleRangeFormatting(msg *rpcMessage) error {
	var params rangeFormattingParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendError(msg.ID, codeInvalidParams, "unknown document")
	}
	if snap.hasParseErrors() {
		return s.sendError(msg.ID, codeRequestFailed, errParseErrors)
	}
	return s.sendResponse(msg.ID, buildRangeFormatting(snap, params.Range))
}

// buildFormatting replaces the whole document when formatting changes it.
func buildFormatting(snap *snapshot) []textEdit {
	text := format.Document(snap.doc, snap.settings.Format)
	if text == string(snap.file.Content) {
		return []textEdit{}
	}
	return []textEdit{{Range: snap.rangeFor(snap.file.Span()), NewText: text}}
}

func buildRangeFormatting(snap *snapshot, r lspRange) []textEdit {
	span := spanForRange(snap.file, r, snap.enc)
	edits := format.Range(snap.doc, snap.file.Content, span, snap.settings.Format)
	out := make([]textEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, textEdit{Range: snap.rangeFor(e.Span), NewText: e.NewText})
	}
	return out
}
