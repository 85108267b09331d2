package check

import (
	"fmt"
	"strings"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/flags"
)

func (c *checker) flags(l *ast.CommandLine) {
	for i := range l.Args {
		arg := &l.Args[i]
		switch s := arg.Shape.(type) {
		case *ast.LongFlag:
			d, m := c.table.Resolve(s.Name)
			if d == nil {
				c.unknownLong(s)
				continue
			}
			c.known(l, arg, d, m)
		case *ast.Shorthand:
			d, ok := c.table.ResolveShorthand(s.Letter)
			if !ok {
				diag.ReportError(c.rep, diag.UnknownFlag, s.NameSpan, fmt.Sprintf("Unknown flag %q", "-"+s.Letter)).Emit()
				continue
			}
			c.known(l, arg, d, flags.MatchExact)
		case *ast.CustomSetting, *ast.Positional:
		}
	}
}

func (c *checker) unknownLong(s *ast.LongFlag) {
	b := diag.ReportError(c.rep, diag.UnknownFlag, s.NameSpan, fmt.Sprintf("Unknown flag %q", "--"+s.Name))
	name, prefix := s.Name, ""
	if s.Negated {
		name, prefix = s.Base(), "no"
	}
	if sug := closest(name, c.table.Names()); sug != "" {
		repl := "--" + prefix + sug
		b.WithFix(fmt.Sprintf("Replace with `%s`", repl), diag.FixEdit{Span: s.NameSpan, NewText: repl})
	}
	b.Emit()
}

func (c *checker) known(l *ast.CommandLine, arg *ast.Argument, d *flags.Descriptor, m flags.Match) {
	name, span, _ := arg.FlagName()
	cmd := l.Command.Name

	// common and always pass each flag only to the commands that accept it
	if !l.Command.Keyword.AppliesToAll() && !d.AppliesTo(cmd) {
		diag.ReportError(c.rep, diag.InapplicableFlag, span,
			fmt.Sprintf("The flag %q is not supported for %q. It is supported for %s commands, though.",
				name, cmd, quoteList(d.Commands))).
			Emit()
	}

	if msg, ok := d.Deprecated(); ok {
		text := fmt.Sprintf("The flag %q is deprecated.", name)
		if msg != "" {
			text += " " + msg
		}
		diag.ReportWarning(c.rep, diag.DeprecatedFlag, span, text).WithTag(diag.TagDeprecated).Emit()
	}
	if m.Alias() {
		repl := "--" + d.Name
		if m.Negated() {
			repl = "--no" + d.Name
		}
		diag.ReportWarning(c.rep, diag.DeprecatedFlag, span, fmt.Sprintf("The flag %q was renamed to %q.", name, repl)).
			WithTag(diag.TagDeprecated).
			WithFix(fmt.Sprintf("Rename to `%s`", repl), diag.FixEdit{Span: span, NewText: repl}).
			Emit()
	}

	if m.Negated() && !d.HasNegativeFlag {
		diag.ReportWarning(c.rep, diag.UnnegatableFlag, span, fmt.Sprintf("The flag %q cannot be negated.", "--"+d.Name)).Emit()
		return
	}
	if d.RequiresValue && !m.Negated() && arg.FlagValue() == nil {
		diag.ReportWarning(c.rep, diag.MissingFlagValue, span, fmt.Sprintf("The flag %q requires a value.", name)).Emit()
	}
}

// quoteList renders ["a", "b"].
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
