package lsp

import (
	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/source"
)

const (
	completionItemKindProperty  = 10
	completionItemKindKeyword   = 14
	completionItemTagDeprecated = 1
)

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, completionList{Items: []completionItem{}})
	}
	items := buildCompletion(snap, snap.offsetFor(params.Position))
	if items == nil {
		items = []completionItem{}
	}
	return s.sendResponse(msg.ID, completionList{Items: items})
}

// buildCompletion completes the word before off. Cursor offsets sit between
// bytes, so the entry of interest is the one holding off-1.
func buildCompletion(snap *snapshot, off uint32) []completionItem {
	lookup := off
	if lookup > 0 {
		lookup--
	}
	if entry, ok := snap.index.Find(lookup); ok {
		switch entry.Kind {
		case ast.EntryCommand:
			return commandCompletions()
		case ast.EntryFlagName:
			cl := snap.commandAt(entry.Line)
			if cl == nil || cl.Command.Missing() {
				// no command to pick flags for; guessing would hide the mistake
				return nil
			}
			if _, custom := cl.Args[entry.Arg].Shape.(*ast.CustomSetting); custom {
				// --//pkg:setting and --@repo//... name build settings, not flags
				return nil
			}
			return flagCompletions(snap, cl.Command.Name, entry.Span)
		case ast.EntryConfig, ast.EntryFlagValue, ast.EntryPositional, ast.EntryComment:
			return nil
		}
		return nil
	}
	// at the start of a physical line the newline before the cursor belongs
	// to the previous line, unless a continuation joins them
	if off > 0 && snap.file.Content[off-1] == '\n' {
		lookup = off
	}
	idx, ok := snap.index.LineAt(lookup)
	if !ok {
		return commandCompletions()
	}
	switch l := snap.doc.Lines[idx].(type) {
	case *ast.CommandLine:
		if l.Command.Missing() {
			return nil
		}
		return flagCompletions(snap, l.Command.Name, source.Span{File: snap.file.ID, Start: off, End: off})
	case *ast.BlankLine:
		return commandCompletions()
	}
	return nil
}

func commandCompletions() []completionItem {
	names := ast.KeywordNames()
	items := make([]completionItem, 0, len(names))
	for _, name := range names {
		item := completionItem{
			Label:            name,
			Kind:             completionItemKindKeyword,
			CommitCharacters: []string{":"},
		}
		if doc, ok := flags.CommandDoc(name); ok {
			item.Documentation = &markupContent{Kind: "markdown", Value: doc}
		}
		items = append(items, item)
	}
	return items
}

// flagCompletions lists the documented flags of cmd, each inserted with its
// dashes over span, followed by the negated forms.
func flagCompletions(snap *snapshot, cmd string, span source.Span) []completionItem {
	if snap.table == nil {
		return nil
	}
	rng := snap.rangeFor(span)
	versions := flags.Versions()
	var items, negated []completionItem
	for _, d := range snap.table.ForCommand(cmd) {
		if d.Undocumented() {
			continue
		}
		doc := &markupContent{Kind: "markdown", Value: d.Markdown(versions)}
		_, deprecated := d.Deprecated()
		item := func(label string, commit []string) completionItem {
			text := "--" + label
			it := completionItem{
				Label:            label,
				Kind:             completionItemKindProperty,
				Documentation:    doc,
				FilterText:       text,
				TextEdit:         &textEdit{Range: rng, NewText: text},
				CommitCharacters: commit,
				Deprecated:       deprecated,
			}
			if deprecated {
				it.Tags = []int{completionItemTagDeprecated}
			}
			return it
		}
		items = append(items, item(d.Name, []string{"="}))
		if d.HasNegativeFlag {
			negated = append(negated, item("no"+d.Name, nil))
		}
	}
	return append(items, negated...)
}
