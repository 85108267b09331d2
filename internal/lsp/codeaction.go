package lsp

import (
	"bazelrc-lsp/internal/source"
)

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	return s.sendResponse(msg.ID, buildCodeActions(snap, spanForRange(snap.file, params.Range, snap.enc)))
}

// buildCodeActions offers the fixes of every diagnostic touching span. The
// first fix of a diagnostic is the preferred one.
func buildCodeActions(snap *snapshot, span source.Span) []codeAction {
	actions := []codeAction{}
	for i := range snap.diags {
		d := &snap.diags[i]
		if len(d.Fixes) == 0 || !d.Primary.Intersects(span) {
			continue
		}
		ld := snap.toLSP(d)
		for j, fix := range d.Fixes {
			edits := make([]textEdit, 0, len(fix.Edits))
			for _, e := range fix.Edits {
				edits = append(edits, textEdit{Range: snap.rangeFor(e.Span), NewText: e.NewText})
			}
			actions = append(actions, codeAction{
				Title:       fix.Title,
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{ld},
				IsPreferred: j == 0,
				Edit:        workspaceEdit{Changes: map[string][]textEdit{snap.uri: edits}},
			})
		}
	}
	return actions
}
