package format

import (
	"bytes"
	"strings"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
)

// Edit replaces Span of the source with NewText.
type Edit struct {
	Span    source.Span
	NewText string
}

type printer struct {
	opt Options
	w   *Writer
}

// Document renders doc under opts.
func Document(doc *ast.Document, opts Options) string {
	p := printer{opt: opts, w: NewWriter(len(doc.File.Content) + 16)}
	for _, g := range reflow(doc, opts.LineFlow) {
		p.printGroup(&g)
	}
	return p.w.String()
}

// Range returns the edits that format the groups of doc intersecting span.
// src is the text doc was parsed from. A group reaching outside span is
// formatted whole; groups that are already formatted produce no edit.
func Range(doc *ast.Document, src []byte, span source.Span, opts Options) []Edit {
	var edits []Edit
	for _, g := range reflow(doc, opts.LineFlow) {
		if !g.span.Intersects(span) {
			continue
		}
		p := printer{opt: opts, w: NewWriter(int(g.span.Len()) + 16)}
		p.printGroup(&g)
		start := clampToContent(int(g.span.Start), len(src))
		end := clampToContent(int(g.span.End), len(src))
		if bytes.Equal(src[start:end], p.w.Bytes()) {
			continue
		}
		edits = append(edits, Edit{Span: g.span, NewText: p.w.String()})
	}
	return edits
}

// Apply applies non-overlapping edits sorted by position to src.
func Apply(src []byte, edits []Edit) []byte {
	var out bytes.Buffer
	out.Grow(len(src))
	prev := 0
	for _, e := range edits {
		start := clampToContent(int(e.Span.Start), len(src))
		end := clampToContent(int(e.Span.End), len(src))
		if start < prev {
			continue
		}
		out.Write(src[prev:start])
		out.WriteString(e.NewText)
		prev = end
	}
	out.Write(src[prev:])
	return out.Bytes()
}

func (p *printer) printGroup(g *group) {
	switch {
	case g.drop:
	case g.blank:
		_ = p.w.WriteByte('\n')
	case g.line != nil:
		switch l := g.line.(type) {
		case *ast.CommentLine:
			p.printComment(&l.Comment, true)
		case *ast.InvalidLine:
			p.w.WriteString(l.Raw)
		}
		_ = p.w.WriteByte('\n')
	default:
		for i := range g.cmds {
			p.printCommand(&g.cmds[i])
			_ = p.w.WriteByte('\n')
		}
	}
}

func (p *printer) printCommand(c *cmdLine) {
	w := p.w
	nonEmpty := false
	if cmd := c.head.Command; !cmd.Missing() {
		w.WriteString(Quote(cmd.Name))
		nonEmpty = true
	}
	if cfg := c.head.Config; cfg != nil {
		_ = w.WriteByte(':')
		if !cfg.Empty() {
			w.WriteString(Quote(cfg.Name))
		}
		nonEmpty = true
	}

	keep := c.wrap == wrapKeep
	each := c.wrap == wrapEach && len(c.args) >= 2 && c.comment == nil
	for i := range c.args {
		arg := &c.args[i]
		if nonEmpty {
			w.Break(each || keep && arg.BreakBefore)
		}
		nonEmpty = true
		p.printArgument(arg, c.head.Command.Keyword.IsImport(), keep)
	}

	if c.comment != nil {
		if nonEmpty {
			w.Break(keep && c.comment.BreakBefore)
		}
		p.printComment(c.comment, false)
	}
}

func (p *printer) printArgument(arg *ast.Argument, importPath, keep bool) {
	switch s := arg.Shape.(type) {
	case *ast.LongFlag:
		p.printFlag("--"+s.Name, s.Value, arg.Form, true, keep)
	case *ast.CustomSetting:
		p.printFlag("--"+s.Label, s.Value, arg.Form, true, keep)
	case *ast.Shorthand:
		p.printFlag("-"+s.Letter, s.Value, arg.Form, false, keep)
	case *ast.Positional:
		if importPath {
			p.w.WriteString(quoteAlways(s.Value.Text))
			return
		}
		p.w.WriteString(Quote(s.Value.Text))
	}
}

func (p *printer) printFlag(name string, v *ast.Value, form ast.Form, normalizable, keep bool) {
	p.w.WriteString(Quote(name))
	if v == nil {
		return
	}
	if form == ast.FormEquals || form == ast.FormSpace && normalizable && p.opt.NormalizeValues {
		_ = p.w.WriteByte('=')
		if v.Text != "" {
			p.w.WriteString(Quote(v.Text))
		}
		return
	}
	p.w.Break(keep && v.BreakBefore)
	p.w.WriteString(Quote(v.Text))
}

// printComment writes a comment. Standalone comments keep their leading
// whitespace, which may be ASCII art; trailing comments get one space after
// the '#'.
func (p *printer) printComment(c *ast.Comment, standalone bool) {
	parts := c.Trimmed(standalone)
	text := strings.Join(parts, "\\\n")
	_ = p.w.WriteByte('#')
	if !standalone && text != "" && !strings.HasPrefix(text, "\\\n") {
		_ = p.w.WriteByte(' ')
	}
	p.w.WriteString(text)
}

func quoteAlways(s string) string {
	q := Quote(s)
	if strings.HasPrefix(q, `"`) {
		return q
	}
	return `"` + q + `"`
}

// CheckRoundTrip formats doc and re-parses the result with arity, reporting
// whether the output parses without invalid lines and, under Keep, into a
// document equal to doc. With NormalizeValues the value forms may differ.
func CheckRoundTrip(doc *ast.Document, opts Options, arity parser.Arity) (ok bool, msg string) {
	for _, l := range doc.Lines {
		if _, invalid := l.(*ast.InvalidLine); invalid {
			return false, "fmt-check: document has invalid lines"
		}
	}
	out := Document(doc, opts)
	again := parser.ParseString(doc.File.Path, out, parser.Options{Arity: arity})
	for _, l := range again.Lines {
		if _, invalid := l.(*ast.InvalidLine); invalid {
			return false, "fmt-check: formatted output has invalid lines"
		}
	}
	equal := ast.Equal
	if opts.NormalizeValues {
		equal = ast.EqualValues
	}
	if opts.LineFlow == Keep && !equal(doc, again) {
		return false, "fmt-check: document changed after round-trip"
	}
	return true, "fmt-check: OK"
}
