package format

import (
	"slices"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/source"
)

type wrap uint8

const (
	// wrapKeep breaks lines where the source did.
	wrapKeep wrap = iota
	wrapNone
	// wrapEach puts every argument on its own continuation line.
	wrapEach
)

// cmdLine is one rendered command line. head supplies the command and
// config; args and comment may come from several source lines.
type cmdLine struct {
	head    *ast.CommandLine
	args    []ast.Argument
	comment *ast.Comment
	wrap    wrap
}

// group is a run of source lines rendered together. Range edits replace
// whole groups.
type group struct {
	span  source.Span
	blank bool
	// drop marks leading and trailing blank runs.
	drop bool
	// line is a *ast.CommentLine or *ast.InvalidLine.
	line ast.Line
	cmds []cmdLine
}

func (g *group) mergeable() bool {
	return len(g.cmds) == 1 && g.cmds[0].comment == nil && !g.cmds[0].head.Command.Keyword.IsImport()
}

func sameHead(a, b *ast.CommandLine) bool {
	if a.Command.Name != b.Command.Name || a.Command.Missing() != b.Command.Missing() {
		return false
	}
	if (a.Config == nil) != (b.Config == nil) {
		return false
	}
	return a.Config == nil || a.Config.Name == b.Config.Name
}

// reflow groups the lines of doc according to flow.
func reflow(doc *ast.Document, flow LineFlow) []group {
	groups := make([]group, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		var last *group
		if n := len(groups); n > 0 {
			last = &groups[n-1]
		}
		switch l := line.(type) {
		case *ast.BlankLine:
			if last != nil && last.blank {
				last.span = last.span.Cover(l.Extent())
				continue
			}
			groups = append(groups, group{span: l.Extent(), blank: true})
		case *ast.CommentLine, *ast.InvalidLine:
			groups = append(groups, group{span: l.Extent(), line: l})
		case *ast.CommandLine:
			switch flow {
			case Keep:
				groups = append(groups, group{span: l.Extent(), cmds: []cmdLine{whole(l, wrapKeep)}})
			case SeparateLines:
				groups = append(groups, group{span: l.Extent(), cmds: separate(l)})
			case LineContinuations, SingleLine:
				w := wrapNone
				if flow == LineContinuations {
					w = wrapEach
				}
				if last != nil && last.mergeable() && l.Comment == nil &&
					!l.Command.Keyword.IsImport() && sameHead(last.cmds[0].head, l) {
					last.cmds[0].args = append(last.cmds[0].args, l.Args...)
					last.span = last.span.Cover(l.Extent())
					continue
				}
				groups = append(groups, group{span: l.Extent(), cmds: []cmdLine{whole(l, w)}})
			}
		}
	}

	if len(groups) > 0 && groups[0].blank {
		groups[0].drop = true
	}
	if n := len(groups); n > 0 && groups[n-1].blank {
		groups[n-1].drop = true
	}
	return groups
}

func whole(l *ast.CommandLine, w wrap) cmdLine {
	return cmdLine{head: l, args: slices.Clone(l.Args), comment: l.Comment, wrap: w}
}

func separate(l *ast.CommandLine) []cmdLine {
	if len(l.Args) <= 1 {
		return []cmdLine{whole(l, wrapNone)}
	}
	out := make([]cmdLine, len(l.Args))
	for i := range l.Args {
		out[i] = cmdLine{head: l, args: l.Args[i : i+1], wrap: wrapNone}
	}
	out[0].comment = l.Comment
	return out
}
