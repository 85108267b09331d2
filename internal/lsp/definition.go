package lsp

import (
	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/workspace"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, []location{})
	}
	result := buildDefinition(snap, snap.offsetFor(params.Position), s.probe)
	if result == nil {
		result = []location{}
	}
	return s.sendResponse(msg.ID, result)
}

// importTarget returns the file an import line points at, or "" when the
// line is not a well-formed import.
func importTarget(snap *snapshot, cl *ast.CommandLine) (string, bool) {
	if cl == nil || !cl.Command.Keyword.IsImport() || len(cl.Args) != 1 || cl.Config != nil {
		return "", false
	}
	pos, ok := cl.Args[0].Shape.(*ast.Positional)
	if !ok {
		return "", false
	}
	return workspace.ResolveImport(pos.Value.Text, snap.path, snap.root)
}

func buildDefinition(snap *snapshot, off uint32, probe workspace.Probe) []location {
	entry, ok := snap.index.Find(off)
	if !ok || entry.Kind != ast.EntryPositional {
		return nil
	}
	path, ok := importTarget(snap, snap.commandAt(entry.Line))
	if !ok || !probe.Exists(path) {
		return nil
	}
	return []location{{URI: pathToURI(path)}}
}

func (s *Server) handleDocumentLink(msg *rpcMessage) error {
	var params documentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, []documentLink{})
	}
	return s.sendResponse(msg.ID, buildDocumentLinks(snap))
}

// buildDocumentLinks links every import path, whether or not the file exists.
func buildDocumentLinks(snap *snapshot) []documentLink {
	links := []documentLink{}
	for _, line := range snap.doc.Lines {
		cl, ok := line.(*ast.CommandLine)
		if !ok {
			continue
		}
		path, ok := importTarget(snap, cl)
		if !ok {
			continue
		}
		links = append(links, documentLink{
			Range:  snap.rangeFor(cl.Args[0].Span),
			Target: pathToURI(path),
		})
	}
	return links
}
