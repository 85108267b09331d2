package lsp

import (
	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/source"
)

var (
	semanticTokenTypes     = []string{"comment", "keyword", "namespace", "variable", "string"}
	semanticTokenModifiers = []string{"deprecated"}
)

const (
	tokComment uint32 = iota
	tokKeyword
	tokNamespace
	tokVariable
	tokString
)

const modDeprecated uint32 = 1 << 0

type semToken struct {
	span source.Span
	typ  uint32
	mods uint32
}

func (s *Server) handleSemanticTokens(msg *rpcMessage) error {
	var params documentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	snap := s.snapshot(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
	}
	return s.sendResponse(msg.ID, semanticTokens{Data: encodeSemanticTokens(snap.file, collectSemanticTokens(snap), snap.enc)})
}

func collectSemanticTokens(snap *snapshot) []semToken {
	var out []semToken
	add := func(span source.Span, typ, mods uint32) {
		if !span.Empty() {
			out = append(out, semToken{span: span, typ: typ, mods: mods})
		}
	}
	for _, line := range snap.doc.Lines {
		switch l := line.(type) {
		case *ast.CommentLine:
			add(l.Comment.Span, tokComment, 0)
		case *ast.CommandLine:
			add(l.Command.Span, tokKeyword, 0)
			if l.Config != nil {
				cfg := l.Config.Span
				cfg.Start = min(cfg.Start+1, cfg.End) // past the colon
				add(cfg, tokNamespace, 0)
			}
			for i := range l.Args {
				arg := &l.Args[i]
				if name, span, ok := arg.FlagName(); ok {
					add(span, tokVariable, flagModifiers(snap.table, name))
				}
				if v := arg.FlagValue(); v != nil {
					add(v.Span, tokString, 0)
				}
			}
			if l.Comment != nil {
				add(l.Comment.Span, tokComment, 0)
			}
		}
	}
	return out
}

func flagModifiers(table *flags.Table, name string) uint32 {
	if table == nil {
		return 0
	}
	d, m := table.Lookup(name)
	if d == nil {
		return 0
	}
	if _, dep := d.Deprecated(); dep || m.Alias() {
		return modDeprecated
	}
	return 0
}

// encodeSemanticTokens produces the relative encoding of the protocol.
// Tokens crossing a line continuation are split per physical line.
func encodeSemanticTokens(file *source.File, tokens []semToken, enc posEncoding) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	prevLine, prevChar := 0, 0
	for _, tok := range tokens {
		first, last := lineRange(file, tok.span)
		for line := first; line <= last; line++ {
			start, end := lineBounds(file, line)
			start, end = max(start, tok.span.Start), min(end, tok.span.End)
			if start >= end {
				continue
			}
			from := positionForOffsetInFile(file, start, enc)
			to := positionForOffsetInFile(file, end, enc)
			deltaChar := from.Character
			if from.Line == prevLine {
				deltaChar -= prevChar
			}
			data = append(data,
				safeUint32(from.Line-prevLine),
				safeUint32(deltaChar),
				safeUint32(to.Character-from.Character),
				tok.typ,
				tok.mods,
			)
			prevLine, prevChar = from.Line, from.Character
		}
	}
	return data
}
