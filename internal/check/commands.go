package check

import (
	"fmt"
	"strings"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/workspace"
)

const invalidConfigMsg = "Overly complicated config name. Config names should consist only of ASCII letters, digits, '-' and '_'."

func (c *checker) command(l *ast.CommandLine) {
	cmd := l.Command
	if cmd.Missing() {
		if len(l.Args) > 0 || l.Config != nil {
			diag.ReportError(c.rep, diag.MissingCommand, l.Span(), "Missing command").Emit()
		}
		return
	}
	if cmd.Keyword.Known() {
		return
	}
	b := diag.ReportError(c.rep, diag.UnknownCommand, cmd.Span, fmt.Sprintf("Unknown command %q", cmd.Name))
	if s := closest(cmd.Name, ast.KeywordNames()); s != "" {
		b.WithFix(fmt.Sprintf("Replace with `%s`", s), diag.FixEdit{Span: cmd.Span, NewText: s})
	}
	b.Emit()
}

func (c *checker) config(l *ast.CommandLine) {
	cfg := l.Config
	if cfg == nil {
		return
	}
	switch {
	case cfg.Empty():
		diag.ReportWarning(c.rep, diag.InvalidConfigName, cfg.Span, "Empty configuration names are pointless").
			WithTag(diag.TagUnnecessary).
			Emit()
	case !cfg.Valid():
		diag.ReportWarning(c.rep, diag.InvalidConfigName, cfg.Span, invalidConfigMsg).Emit()
	}
	kw := l.Command.Keyword
	if kw.Known() && !kw.AllowsConfig() {
		diag.ReportError(c.rep, diag.DisallowedConfig, cfg.Span,
			fmt.Sprintf("Configuration names not supported on %q commands", l.Command.Name)).
			WithFix("Remove the config name", diag.FixEdit{Span: cfg.Span}).
			Emit()
	}
}

func (c *checker) importLine(l *ast.CommandLine) {
	name := l.Command.Name
	switch len(l.Args) {
	case 0:
		diag.ReportError(c.rep, diag.InvalidImport, l.Span(), fmt.Sprintf("Missing file path after %q", name)).Emit()
		return
	case 1:
	default:
		extra := l.Args[1].Span.Cover(l.Args[len(l.Args)-1].Span)
		diag.ReportError(c.rep, diag.InvalidImport, extra, fmt.Sprintf("%q takes exactly one file path", name)).Emit()
		return
	}

	arg := &l.Args[0]
	raw := arg.FlagValue().Text
	if strings.HasPrefix(raw, "-") {
		diag.ReportError(c.rep, diag.InvalidImport, arg.Span, fmt.Sprintf("%q expects a file path, not a flag", name)).Emit()
		return
	}
	if c.probe == nil {
		return
	}
	path, ok := workspace.ResolveImport(raw, c.doc.File.Path, c.opts.Root)
	if !ok || c.probe.Exists(path) {
		return
	}
	if l.Command.Keyword == ast.KwTryImport {
		diag.ReportHint(c.rep, diag.MissingImportFile, arg.Span, fmt.Sprintf("Optional file %q does not exist", path)).
			WithTag(diag.TagUnnecessary).
			Emit()
		return
	}
	diag.ReportError(c.rep, diag.MissingImportFile, arg.Span, fmt.Sprintf("Imported file %q does not exist", path)).Emit()
}
