package lsp

import (
	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/flags"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, nil)
	}
	result := buildHover(snap, snap.offsetFor(params.Position))
	if result == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, result)
}

// buildHover documents the command or flag at off. Hovering a flag value
// shows the flag.
func buildHover(snap *snapshot, off uint32) *hover {
	entry, ok := snap.index.Find(off)
	if !ok {
		return nil
	}
	cl := snap.commandAt(entry.Line)
	if cl == nil {
		return nil
	}
	var text string
	switch entry.Kind {
	case ast.EntryCommand:
		doc, ok := flags.CommandDoc(cl.Command.Name)
		if !ok {
			return nil
		}
		text = doc
	case ast.EntryFlagName, ast.EntryFlagValue:
		if snap.table == nil || entry.Arg < 0 || entry.Arg >= len(cl.Args) {
			return nil
		}
		name, _, ok := cl.Args[entry.Arg].FlagName()
		if !ok {
			return nil
		}
		d, _ := snap.table.Lookup(name)
		if d == nil {
			return nil
		}
		text = d.Markdown(flags.Versions())
	default:
		return nil
	}
	rng := snap.rangeFor(entry.Span)
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: text},
		Range:    &rng,
	}
}
