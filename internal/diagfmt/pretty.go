package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/source"
)

const tabWidth = 4

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	gutter *color.Color
	caret  map[diag.Severity]*color.Color
	note   *color.Color
	help   *color.Color
	del    *color.Color
	add    *color.Color
}

func newPalette(enabled bool) *palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
			diag.SevHint:    mk(color.FgGreen, color.Bold),
		},
		caret: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed),
			diag.SevWarning: mk(color.FgYellow),
			diag.SevInfo:    mk(color.FgCyan),
			diag.SevHint:    mk(color.FgGreen),
		},
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan, color.Bold),
		help:   mk(color.FgGreen, color.Bold),
		del:    mk(color.FgRed),
		add:    mk(color.FgGreen),
	}
}

// Pretty renders diagnostics in a human readable form. Each diagnostic is
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by the source lines of its span with the span underlined and,
// depending on opts, its notes and fixes. The bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	baseDir := fs.BaseDir()
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, baseDir, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, baseDir string, opts PrettyOpts, p *palette) {
	file := fs.Get(d.Primary.File)
	start, end := file.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(file, baseDir, opts.PathMode), start.Line, start.Col,
		p.sev[d.Severity].Sprint(d.Severity.Label()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, file, d.Primary, start, end, d.Severity, opts, p)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			ns, _ := nf.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s (%s:%d:%d)\n", p.note.Sprint("= note:"), note.Msg,
				formatPath(nf, baseDir, opts.PathMode), ns.Line, ns.Col)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.help.Sprint("= help:"), f.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range f.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, l := range preview.before {
					fmt.Fprintf(w, "    %s\n", p.del.Sprint("- "+l))
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "    %s\n", p.add.Sprint("+ "+l))
				}
			}
		}
	}
}

// writeSnippet prints the lines of span, plus opts.Context lines above it,
// with a caret line under each part of the span.
func writeSnippet(w io.Writer, file *source.File, span source.Span, start, end source.LineCol, sev diag.Severity, opts PrettyOpts, p *palette) {
	if start.Line == 0 {
		return
	}
	first := max(1, int(start.Line)-max(opts.Context, 0))
	last := int(end.Line)
	if last > int(start.Line) && span.End == file.LineStart(last-1) {
		// the span ends on a newline; its last line has nothing to mark
		last--
	}
	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(uint32(ln))
		shown := expandTabs(text)
		if opts.Width > 0 {
			shown = runewidth.Truncate(shown, opts.Width, "...")
		}
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprintf("%*d", gutterWidth, ln), p.gutter.Sprint("|"), shown)
		if ln < int(start.Line) {
			continue
		}

		from, to := 0, len(text)
		if ln == int(start.Line) {
			from = min(int(start.Col)-1, len(text))
		}
		if ln == int(end.Line) {
			to = min(int(end.Col)-1, len(text))
		}
		pad := runewidth.StringWidth(expandTabs(text[:from]))
		width := runewidth.StringWidth(expandTabs(text[from:max(from, to)]))
		marks := "^"
		if width > 1 {
			marks += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(w, "%s %s %s%s\n", blank, p.gutter.Sprint("|"), strings.Repeat(" ", pad), p.caret[sev].Sprint(marks))
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
