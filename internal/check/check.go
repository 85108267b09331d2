// Package check validates a parsed bazelrc document against the flag table
// of one Bazel version.
package check

import (
	"fmt"
	"slices"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/workspace"
)

// Options tune a check run.
type Options struct {
	// Root is the workspace root that %workspace% expands to; empty if unknown.
	Root string
	// Version is reported when no table could be loaded for it.
	Version string
	// Max keeps only the first Max diagnostics by position; zero means
	// unlimited.
	Max int
}

type checker struct {
	doc   *ast.Document
	table *flags.Table
	probe workspace.Probe
	opts  Options
	rep   diag.Reporter
}

// Run returns the diagnostics of doc ordered by position. table may be nil,
// in which case only syntax, command and import rules run. probe may be nil
// to skip the filesystem.
func Run(doc *ast.Document, table *flags.Table, probe workspace.Probe, opts Options) []diag.Diagnostic {
	bag := diag.NewBag(0)
	c := &checker{
		doc:   doc,
		table: table,
		probe: probe,
		opts:  opts,
		rep:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
	if table == nil {
		c.unknownVersion()
	}
	for _, line := range doc.Lines {
		switch l := line.(type) {
		case *ast.InvalidLine:
			diag.ReportError(c.rep, diag.InvalidLine, l.At, l.Reason).Emit()
		case *ast.CommandLine:
			c.commandLine(l)
		case *ast.CommentLine, *ast.BlankLine:
		}
	}
	bag.Sort()
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	return slices.Clone(items)
}

func (c *checker) unknownVersion() {
	msg := "No flag data available; flag checks are disabled."
	if c.opts.Version != "" {
		msg = fmt.Sprintf("No flag data for Bazel version %q; flag checks are disabled.", c.opts.Version)
	}
	diag.ReportWarning(c.rep, diag.UnknownVersion, c.doc.File.Span().At(0), msg).Emit()
}

func (c *checker) commandLine(l *ast.CommandLine) {
	c.command(l)
	c.config(l)
	switch {
	case l.Command.Keyword.IsImport():
		c.importLine(l)
	case l.Command.Keyword.Known() && c.table != nil:
		c.flags(l)
	}
}
