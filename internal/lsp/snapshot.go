package lsp

import (
	"path/filepath"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/check"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/workspace"
)

// snapshot is one analyzed version of a document. Snapshots are never
// modified after they are stored; an edit stores a new one.
type snapshot struct {
	uri     string
	path    string
	version int
	enc     posEncoding

	file  *source.File
	doc   *ast.Document
	index *ast.Index

	settings    Settings
	settingsGen uint64
	root        string
	resolution  bazelversion.Resolution
	table       *flags.Table
	diags       []diag.Diagnostic
}

func (s *Server) analyze(uri string, version int, text string) *snapshot {
	s.mu.Lock()
	settings, gen := s.settings, s.settingsGen
	wsRoot, enc := s.workspaceRoot, s.encoding
	s.mu.Unlock()

	snap := &snapshot{
		uri:         uri,
		path:        uriToPath(uri),
		version:     version,
		enc:         enc,
		settings:    settings,
		settingsGen: gen,
	}
	name := snap.path
	if name == "" {
		name = uri
	}
	snap.file = source.NewFile(name, []byte(text), source.FileVirtual)

	if prev := s.snapshot(uri); prev != nil && prev.settingsGen == gen {
		snap.root, snap.resolution, snap.table = prev.root, prev.resolution, prev.table
	} else {
		snap.root, snap.resolution, snap.table = s.resolveTable(snap.path, wsRoot, settings.BazelVersion)
	}

	snap.doc = parser.Parse(snap.file, parser.Options{Arity: snap.table})
	snap.index = ast.NewIndex(snap.doc)
	var probe workspace.Probe
	if snap.path != "" {
		probe = s.probe
	}
	snap.diags = check.Run(snap.doc, snap.table, probe, check.Options{
		Root:    snap.root,
		Version: snap.resolution.Version,
		Max:     settings.MaxDiagnostics,
	})
	return snap
}

// resolveTable finds the workspace root and flag table for the rc file at
// path. Files outside any workspace fall back to the client's root.
func (s *Server) resolveTable(path, wsRoot, override string) (string, bazelversion.Resolution, *flags.Table) {
	dir := wsRoot
	if path != "" {
		dir = filepath.Dir(path)
	}
	root := wsRoot
	if found, ok, err := workspace.FindRoot(dir); err == nil && ok {
		root = found
	}
	res := s.detector.Resolve(dir, override)
	table, err := flags.Load(res.Version)
	if err != nil {
		s.log.Warn("no flag table", "version", res.Version, "err", err)
		return root, res, nil
	}
	return root, res, table
}

// hasParseErrors reports whether any line failed to tokenize.
func (snap *snapshot) hasParseErrors() bool {
	for _, l := range snap.doc.Lines {
		if _, ok := l.(*ast.InvalidLine); ok {
			return true
		}
	}
	return false
}

func (snap *snapshot) rangeFor(span source.Span) lspRange {
	return rangeForSpan(snap.file, span, snap.enc)
}

func (snap *snapshot) offsetFor(pos position) uint32 {
	return offsetForPositionInFile(snap.file, pos, snap.enc)
}

func (snap *snapshot) commandAt(line int) *ast.CommandLine {
	if line < 0 || line >= len(snap.doc.Lines) {
		return nil
	}
	cl, _ := snap.doc.Lines[line].(*ast.CommandLine)
	return cl
}
