package parser_test

import (
	"testing"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
)

type arity map[string]bool

func (a arity) RequiresValue(name string, shorthand bool) bool {
	if shorthand {
		name = "-" + name
	}
	return a[name]
}

func parse(t *testing.T, text string, a parser.Arity) *ast.Document {
	t.Helper()
	return parser.ParseString("test.bazelrc", text, parser.Options{Arity: a})
}

func commandLine(t *testing.T, doc *ast.Document, i int) *ast.CommandLine {
	t.Helper()
	if i >= len(doc.Lines) {
		t.Fatalf("document has %d lines, want line %d", len(doc.Lines), i)
	}
	cl, ok := doc.Lines[i].(*ast.CommandLine)
	if !ok {
		t.Fatalf("line %d is %T, want *ast.CommandLine", i, doc.Lines[i])
	}
	return cl
}

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestParseCommandLine(t *testing.T) {
	doc := parse(t, "build:opt --copt=-O2 --jobs 4 # c", arity{"jobs": true})
	cl := commandLine(t, doc, 0)

	if cl.Command.Keyword != ast.KwBuild || cl.Command.Span != span(0, 5) {
		t.Fatalf("command %+v", cl.Command)
	}
	if cl.Config == nil || cl.Config.Name != "opt" || cl.Config.Span != span(5, 9) {
		t.Fatalf("config %+v", cl.Config)
	}
	if len(cl.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(cl.Args))
	}

	copt, ok := cl.Args[0].Shape.(*ast.LongFlag)
	if !ok || copt.Name != "copt" || copt.NameSpan != span(10, 16) {
		t.Fatalf("copt %+v", cl.Args[0].Shape)
	}
	if cl.Args[0].Form != ast.FormEquals || copt.Value.Text != "-O2" || copt.Value.Span != span(17, 20) {
		t.Fatalf("copt value %+v form %v", copt.Value, cl.Args[0].Form)
	}

	jobs := cl.Args[1].Shape.(*ast.LongFlag)
	if cl.Args[1].Form != ast.FormSpace || jobs.Value == nil || jobs.Value.Text != "4" {
		t.Fatalf("jobs %+v form %v", jobs, cl.Args[1].Form)
	}
	if cl.Args[1].Span != span(21, 29) {
		t.Fatalf("jobs span %v", cl.Args[1].Span)
	}

	if cl.Comment == nil || cl.Comment.Text != " c" || cl.Comment.Span != span(30, 33) {
		t.Fatalf("comment %+v", cl.Comment)
	}
}

func TestParseContinuations(t *testing.T) {
	doc := parse(t, "build \\\n  --a \\\n  --b # x\ntest --c", nil)
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	cl := commandLine(t, doc, 0)
	if !cl.Continued {
		t.Fatalf("expected a continued line")
	}
	for i, arg := range cl.Args {
		if !arg.BreakBefore {
			t.Fatalf("arg %d: expected BreakBefore", i)
		}
	}
	if cl.Comment == nil || cl.Comment.BreakBefore {
		t.Fatalf("comment %+v", cl.Comment)
	}
	if next := commandLine(t, doc, 1); next.Continued || next.Args[0].BreakBefore {
		t.Fatalf("second line %+v", next)
	}
}

func TestParseFlagShapes(t *testing.T) {
	doc := parse(t, "build --nokeep_going --no --//foo:bar=1 --@repo//:x -k value", nil)
	cl := commandLine(t, doc, 0)
	if len(cl.Args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(cl.Args))
	}

	neg := cl.Args[0].Shape.(*ast.LongFlag)
	if !neg.Negated || neg.Base() != "keep_going" {
		t.Fatalf("negated flag %+v", neg)
	}
	if bare := cl.Args[1].Shape.(*ast.LongFlag); bare.Negated || bare.Name != "no" {
		t.Fatalf("bare --no %+v", bare)
	}

	custom, ok := cl.Args[2].Shape.(*ast.CustomSetting)
	if !ok || custom.Label != "//foo:bar" || custom.Value == nil || custom.Value.Text != "1" {
		t.Fatalf("custom setting %+v", cl.Args[2].Shape)
	}
	if repo, ok := cl.Args[3].Shape.(*ast.CustomSetting); !ok || repo.Label != "@repo//:x" {
		t.Fatalf("repo setting %+v", cl.Args[3].Shape)
	}
	if short, ok := cl.Args[4].Shape.(*ast.Shorthand); !ok || short.Letter != "k" || short.Value != nil {
		t.Fatalf("shorthand %+v", cl.Args[4].Shape)
	}
	if pos, ok := cl.Args[5].Shape.(*ast.Positional); !ok || pos.Value.Text != "value" {
		t.Fatalf("positional %+v", cl.Args[5].Shape)
	}
}

func TestParseValueBinding(t *testing.T) {
	a := arity{"copt": true, "-c": true}
	doc := parse(t, "build --copt --std=c++20 -c dbg --nocopt\nbuild --copt", a)
	cl := commandLine(t, doc, 0)
	if len(cl.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(cl.Args))
	}
	if v := cl.Args[0].FlagValue(); cl.Args[0].Form != ast.FormSpace || v.Text != "--std=c++20" {
		t.Fatalf("copt %+v", cl.Args[0])
	}
	if v := cl.Args[1].FlagValue(); cl.Args[1].Form != ast.FormSpace || v.Text != "dbg" {
		t.Fatalf("shorthand %+v", cl.Args[1])
	}

	// a flag at the end of the line has nothing to bind
	last := commandLine(t, doc, 1)
	if last.Args[0].Form != ast.FormBare || last.Args[0].FlagValue() != nil {
		t.Fatalf("trailing flag %+v", last.Args[0])
	}
}

func TestParseImport(t *testing.T) {
	doc := parse(t, "import %workspace%/a.bazelrc\ntry-import --foo b", arity{"foo": true})
	imp := commandLine(t, doc, 0)
	if imp.Command.Keyword != ast.KwImport || len(imp.Args) != 1 {
		t.Fatalf("import %+v", imp)
	}
	if pos, ok := imp.Args[0].Shape.(*ast.Positional); !ok || pos.Value.Text != "%workspace%/a.bazelrc" {
		t.Fatalf("import path %+v", imp.Args[0].Shape)
	}
	try := commandLine(t, doc, 1)
	if len(try.Args) != 2 {
		t.Fatalf("try-import args %+v", try.Args)
	}
	for i, arg := range try.Args {
		if _, ok := arg.Shape.(*ast.Positional); !ok {
			t.Fatalf("try-import arg %d is %T", i, arg.Shape)
		}
	}
}

func TestParseMissingAndUnknownCommand(t *testing.T) {
	doc := parse(t, "--foo\n:opt --x\nbuidl --y\nbuild:", nil)

	missing := commandLine(t, doc, 0)
	if !missing.Command.Missing() || len(missing.Args) != 1 {
		t.Fatalf("missing command %+v", missing)
	}
	if !missing.Command.Span.Empty() || missing.Command.Span.Start != 0 {
		t.Fatalf("missing command span %v", missing.Command.Span)
	}

	colon := commandLine(t, doc, 1)
	if !colon.Command.Missing() || colon.Config == nil || colon.Config.Name != "opt" {
		t.Fatalf("config without command %+v", colon)
	}

	unknown := commandLine(t, doc, 2)
	if unknown.Command.Keyword != ast.KwUnknown || unknown.Command.Name != "buidl" {
		t.Fatalf("unknown command %+v", unknown.Command)
	}

	empty := commandLine(t, doc, 3)
	if empty.Config == nil || !empty.Config.Empty() {
		t.Fatalf("empty config %+v", empty.Config)
	}
}

func TestParseEmptyQuotedCommand(t *testing.T) {
	doc := parse(t, "\"\" foo\n''\n", nil)

	quoted := commandLine(t, doc, 0)
	if quoted.Command.Missing() || quoted.Command.Name != "" || quoted.Command.Span.Len() != 2 {
		t.Fatalf("empty quoted command %+v", quoted.Command)
	}
	if len(quoted.Args) != 1 {
		t.Fatalf("args %+v", quoted.Args)
	}
	if only := commandLine(t, doc, 1); only.Command.Missing() {
		t.Fatalf("'' parsed as a missing command")
	}
}

func TestParseLineKinds(t *testing.T) {
	doc := parse(t, "# comment\n\nbuild \"--x=1\n  \nbuild --y", nil)
	if len(doc.Lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(doc.Lines))
	}
	if c, ok := doc.Lines[0].(*ast.CommentLine); !ok || c.Comment.Text != " comment" {
		t.Fatalf("line 0 %+v", doc.Lines[0])
	}
	if _, ok := doc.Lines[1].(*ast.BlankLine); !ok {
		t.Fatalf("line 1 is %T", doc.Lines[1])
	}
	inv, ok := doc.Lines[2].(*ast.InvalidLine)
	if !ok || inv.Raw != `build "--x=1` || inv.At.Start != 17 {
		t.Fatalf("line 2 %+v", doc.Lines[2])
	}
	if _, ok := doc.Lines[3].(*ast.BlankLine); !ok {
		t.Fatalf("line 3 is %T", doc.Lines[3])
	}
	// the line after an invalid one is still parsed
	if cl := commandLine(t, doc, 4); cl.Command.Keyword != ast.KwBuild || len(cl.Args) != 1 {
		t.Fatalf("line 4 %+v", cl)
	}
}

func TestParseConfigName(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"build:opt", true},
		{"build:my-config_2", true},
		{"build:o\\ p", false},
		{"build:a.b", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cl := commandLine(t, parse(t, tt.in, nil), 0)
			if cl.Config == nil || cl.Config.Valid() != tt.valid {
				t.Fatalf("config %+v, want valid=%v", cl.Config, tt.valid)
			}
		})
	}
}
