package ast_test

import (
	"testing"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/parser"
)

func parse(text string) *ast.Document {
	return parser.ParseString("test.bazelrc", text, parser.Options{})
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"build  --a=1", "build --a=1", true},
		{`build --a="1"`, "build --a=1", true},
		{"build --a=1 # x ", "build --a=1 #x", true},
		{"\n\nbuild --a\n\n\n# c\n\n", "build --a\n\n# c", true},
		{"build --a=1", "build --a 1", false},
		{"build --a", "test --a", false},
		{"build:x --a", "build --a", false},
		{"build --a \\\n --b", "build --a --b", false},
		{"#  indented", "# indented", false},
		{"build --a # c", "build --a", false},
		{`"" --a`, "--a", false},
		{`''`, `""`, true},
		{`"" no`, "no", false},
	}
	for _, tt := range tests {
		if got := ast.Equal(parse(tt.a), parse(tt.b)); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// values binds the next word for --a, --b and -c
type values struct{}

func (values) RequiresValue(name string, shorthand bool) bool {
	if shorthand {
		return name == "c"
	}
	return name == "a" || name == "b"
}

func TestEqualValues(t *testing.T) {
	parseValues := func(text string) *ast.Document {
		return parser.ParseString("test.bazelrc", text, parser.Options{Arity: values{}})
	}
	tests := []struct {
		a, b string
		want bool
	}{
		{"build --a 1", "build --a=1", true},
		{"build --a \\\n  1", "build --a=1", true},
		{"build --a 1", "build --a=2", false},
		{"build --a=1 \\\n --b=2", "build --a=1 --b=2", false},
		{"build -c opt", "build -c=opt", true},
		{"build --a 1 x", "build --a=1", false},
	}
	for _, tt := range tests {
		if got := ast.EqualValues(parseValues(tt.a), parseValues(tt.b)); got != tt.want {
			t.Errorf("EqualValues(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	if ast.Equal(parseValues("build --a 1"), parseValues("build --a=1")) {
		t.Errorf("Equal ignores the value form")
	}
}

func TestIndex(t *testing.T) {
	doc := parse("# config\ncommon --remote_cache= --disk_cache=\nbuild:opt --upload_results=false\n    ")
	ix := ast.NewIndex(doc)

	type entry struct {
		kind       ast.EntryKind
		start, end uint32
		line, arg  int
	}
	want := []entry{
		{ast.EntryComment, 0, 8, 0, -1},
		{ast.EntryCommand, 9, 15, 1, -1},
		{ast.EntryFlagName, 16, 30, 1, 0},
		{ast.EntryFlagValue, 30, 31, 1, 0},
		{ast.EntryFlagName, 32, 44, 1, 1},
		{ast.EntryFlagValue, 44, 45, 1, 1},
		{ast.EntryCommand, 46, 51, 2, -1},
		{ast.EntryConfig, 51, 55, 2, -1},
		{ast.EntryFlagName, 56, 72, 2, 0},
		{ast.EntryFlagValue, 72, 78, 2, 0},
	}
	got := ix.Entries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Kind != w.kind || g.Span.Start != w.start || g.Span.End != w.end || g.Line != w.line || g.Arg != w.arg {
			t.Errorf("entry %d: got %+v, want %+v", i, g, w)
		}
	}

	if e, ok := ix.Find(20); !ok || e.Kind != ast.EntryFlagName || e.Arg != 0 {
		t.Fatalf("Find(20) = %+v, %v", e, ok)
	}
	if e, ok := ix.Find(8); ok {
		t.Fatalf("Find(8) on a newline = %+v", e)
	}
}

func TestIndexLineAt(t *testing.T) {
	ix := ast.NewIndex(parse("build --a\n\ntest"))
	tests := []struct {
		off  uint32
		line int
		ok   bool
	}{
		{0, 0, true},
		{9, 0, true},
		{10, 1, true},
		{11, 2, true},
		{15, 2, true},
		{16, 0, false},
	}
	for _, tt := range tests {
		line, ok := ix.LineAt(tt.off)
		if ok != tt.ok || (ok && line != tt.line) {
			t.Errorf("LineAt(%d) = %d, %v; want %d, %v", tt.off, line, ok, tt.line, tt.ok)
		}
	}
}

func TestKeywords(t *testing.T) {
	if ast.LookupKeyword("try-import") != ast.KwTryImport || !ast.KwTryImport.IsImport() {
		t.Fatalf("try-import lookup")
	}
	if ast.LookupKeyword("bulid").Known() {
		t.Fatalf("typo should not be a keyword")
	}
	for _, kw := range []ast.Keyword{ast.KwStartup, ast.KwImport, ast.KwTryImport} {
		if kw.AllowsConfig() {
			t.Errorf("%s should not allow configs", kw)
		}
	}
	if !ast.KwBuild.AllowsConfig() || !ast.KwCommon.AppliesToAll() {
		t.Fatalf("build/common properties")
	}
	names := ast.KeywordNames()
	if len(names) != 28 || names[0] != "always" {
		t.Fatalf("keyword names %v", names)
	}
}

func TestCommentTrimmed(t *testing.T) {
	c := ast.Comment{Text: "  a  b  ", Breaks: []int{4}}
	if got := c.Trimmed(false); got[0] != "a " || got[1] != " b" {
		t.Fatalf("Trimmed(false) = %q", got)
	}
	if got := c.Trimmed(true); got[0] != "  a " {
		t.Fatalf("Trimmed(true) = %q", got)
	}
}
