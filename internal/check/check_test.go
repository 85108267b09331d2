package check_test

import (
	"reflect"
	"strings"
	"testing"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/check"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/workspace"
)

func table(t *testing.T, version string) *flags.Table {
	t.Helper()
	tb, err := flags.Load(version)
	if err != nil {
		t.Fatalf("Load(%q): %v", version, err)
	}
	return tb
}

func run(t *testing.T, tb *flags.Table, text string, probe workspace.Probe, opts check.Options) (*ast.Document, []diag.Diagnostic) {
	t.Helper()
	doc := parser.ParseString("/ws/.bazelrc", text, parser.Options{Arity: tb})
	return doc, check.Run(doc, tb, probe, opts)
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestRules(t *testing.T) {
	tb := table(t, "7.4.0")
	tests := []struct {
		text string
		want []diag.Code
	}{
		{"build --remote_upload_local_results=false", nil},
		{"built --remote_upload_local_results=false", []diag.Code{diag.UnknownCommand}},
		{"--remote_upload_local_results=false", []diag.Code{diag.MissingCommand}},
		{":opt --remote_upload_local_results=false", []diag.Code{diag.MissingCommand}},
		{"startup --disk_cache=", []diag.Code{diag.InapplicableFlag}},
		{"common --batch", []diag.Code{diag.DeprecatedFlag}},
		{"always --output_base=/tmp/x --keep_going", nil},
		{"query --keep_going", []diag.Code{diag.InapplicableFlag}},
		{"common:opt.x --disk_cache=", []diag.Code{diag.InvalidConfigName}},
		{"common:_personal --disk_cache=", nil},
		{"common:Opt-2 --disk_cache=", nil},
		{"startup:opt.x", []diag.Code{diag.DisallowedConfig, diag.InvalidConfigName}},
		{"import:opt \"x.bazelrc\"", []diag.Code{diag.DisallowedConfig}},
		{"build --nokeep_going", nil},
		{"build --nocopt", []diag.Code{diag.UnnegatableFlag}},
		{"build --copt", []diag.Code{diag.MissingFlagValue}},
		{"build --copt -O2 --jobs 4 -c opt", nil},
		{"build --//my:setting=1 --@repo//:x", nil},
		{"build -Z", []diag.Code{diag.UnknownFlag}},
		{"build --expand_configs_in_place", []diag.Code{diag.UnknownFlag}},
		{"test --test_output=errors --cache_test_results=no -t no", nil},
		{"build --copt=\"abc", []diag.Code{diag.InvalidLine}},
		{"import", []diag.Code{diag.InvalidImport}},
		{"try-import a.bazelrc b.bazelrc", []diag.Code{diag.InvalidImport}},
		{"# build --unknown\n\nbuild --keep_going # trailing", nil},
	}
	for _, tt := range tests {
		_, diags := run(t, tb, tt.text, nil, check.Options{})
		if got := codes(diags); len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("%q: got %v, want %v\n%s", tt.text, got, tt.want,
				diag.FormatGoldenDiagnostics(diags, source.NewFile("t", []byte(tt.text), 0), false))
		}
	}
}

func TestFlagsExistingAndAbbreviated(t *testing.T) {
	doc, diags := run(t, table(t, "7.4.0"), "build --keep_going -k", nil, check.Options{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	cl := doc.Lines[0].(*ast.CommandLine)
	if len(cl.Args) != 2 {
		t.Fatalf("want two arguments, got %d", len(cl.Args))
	}
	if _, ok := cl.Args[0].Shape.(*ast.LongFlag); !ok {
		t.Fatalf("first argument is %T", cl.Args[0].Shape)
	}
	if _, ok := cl.Args[1].Shape.(*ast.Shorthand); !ok {
		t.Fatalf("second argument is %T", cl.Args[1].Shape)
	}
}

func TestConfigOnStartup(t *testing.T) {
	_, diags := run(t, table(t, "7.4.0"), "startup:myconfig --batch", nil, check.Options{})
	if got := codes(diags); !reflect.DeepEqual(got, []diag.Code{diag.DisallowedConfig, diag.DeprecatedFlag}) {
		t.Fatalf("got %v", got)
	}
	disallowed := diags[0]
	if disallowed.Primary != (source.Span{Start: 7, End: 16}) || disallowed.Severity != diag.SevError {
		t.Fatalf("DisallowedConfig: %+v", disallowed)
	}
	if len(disallowed.Fixes) != 1 || disallowed.Fixes[0].Edits[0].NewText != "" {
		t.Fatalf("DisallowedConfig fix: %+v", disallowed.Fixes)
	}
	if want := `Configuration names not supported on "startup" commands`; disallowed.Message != want {
		t.Fatalf("message %q", disallowed.Message)
	}
	deprecated := diags[1]
	if deprecated.Message != `The flag "--batch" is deprecated.` || deprecated.Severity != diag.SevWarning {
		t.Fatalf("DeprecatedFlag: %+v", deprecated)
	}
	if len(deprecated.Tags) != 1 || deprecated.Tags[0] != diag.TagDeprecated {
		t.Fatalf("tags %v", deprecated.Tags)
	}
}

func TestUnknownFlag(t *testing.T) {
	tb := table(t, "7.4.0")
	_, diags := run(t, tb, "build --some_unknown_flag", nil, check.Options{})
	if len(diags) != 1 || diags[0].Code != diag.UnknownFlag {
		t.Fatalf("got %v", codes(diags))
	}
	if diags[0].Primary != (source.Span{Start: 6, End: 25}) {
		t.Fatalf("span %v", diags[0].Primary)
	}
	if diags[0].Message != `Unknown flag "--some_unknown_flag"` {
		t.Fatalf("message %q", diags[0].Message)
	}

	_, diags = run(t, tb, "build --keep_goign --nokeep_goign", nil, check.Options{})
	if len(diags) != 2 {
		t.Fatalf("got %v", codes(diags))
	}
	for i, want := range []string{"--keep_going", "--nokeep_going"} {
		fixes := diags[i].Fixes
		if len(fixes) != 1 || fixes[0].Edits[0].NewText != want {
			t.Fatalf("diagnostic %d fixes %+v, want %s", i, fixes, want)
		}
	}
}

func TestEmptyConfigName(t *testing.T) {
	_, diags := run(t, table(t, "7.4.0"), "build: --keep_going", nil, check.Options{})
	if len(diags) != 1 || diags[0].Code != diag.InvalidConfigName {
		t.Fatalf("got %v", codes(diags))
	}
	if diags[0].Message != "Empty configuration names are pointless" {
		t.Fatalf("message %q", diags[0].Message)
	}
}

func TestInapplicableMessage(t *testing.T) {
	_, diags := run(t, table(t, "7.4.0"), "query --test_output=all", nil, check.Options{})
	want := `The flag "--test_output" is not supported for "query". It is supported for ["coverage", "test"] commands, though.`
	if len(diags) != 1 || diags[0].Message != want {
		t.Fatalf("got %+v", diags)
	}
}

func TestRenamedFlag(t *testing.T) {
	tb := table(t, "7.4.0")
	_, diags := run(t, tb, "build --experimental_remote_build_event_upload=all", nil, check.Options{})
	if len(diags) != 1 || diags[0].Code != diag.DeprecatedFlag {
		t.Fatalf("got %v", codes(diags))
	}
	fix := diags[0].Fixes
	if len(fix) != 1 || fix[0].Edits[0].NewText != "--remote_build_event_upload" {
		t.Fatalf("fix %+v", fix)
	}
	if fix[0].Edits[0].Span != (source.Span{Start: 6, End: 46}) {
		t.Fatalf("fix span %v", fix[0].Edits[0].Span)
	}

	// Before the rename the old flag is the real one.
	_, diags = run(t, table(t, "7.1.0"), "build --expand_configs_in_place", nil, check.Options{})
	if len(diags) != 1 || diags[0].Code != diag.DeprecatedFlag {
		t.Fatalf("7.1.0: got %v", codes(diags))
	}
}

func TestImports(t *testing.T) {
	tb := table(t, "7.4.0")
	missing := workspace.ProbeFunc(func(string) bool { return false })
	opts := check.Options{Root: "/ws"}

	_, diags := run(t, tb, `import "%workspace%/no_such_file.bazelrc"`, missing, opts)
	if len(diags) != 1 || diags[0].Code != diag.MissingImportFile || diags[0].Severity != diag.SevError {
		t.Fatalf("import: %+v", diags)
	}
	if !strings.Contains(diags[0].Message, "/ws/no_such_file.bazelrc") {
		t.Fatalf("message %q", diags[0].Message)
	}

	_, diags = run(t, tb, `try-import "%workspace%/no_such_file.bazelrc"`, missing, opts)
	if len(diags) != 1 || diags[0].Code != diag.MissingImportFile || diags[0].Severity >= diag.SevError {
		t.Fatalf("try-import: %+v", diags)
	}

	var probed []string
	record := workspace.ProbeFunc(func(p string) bool {
		probed = append(probed, p)
		return true
	})
	_, diags = run(t, tb, "import user.bazelrc\nimport %workspace%/a.bazelrc", record, check.Options{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", codes(diags))
	}
	if !reflect.DeepEqual(probed, []string{"/ws/user.bazelrc"}) {
		t.Fatalf("probed %v", probed)
	}
}

func TestUnknownVersion(t *testing.T) {
	doc := parser.ParseString("/ws/.bazelrc", "build --no_such_flag\nbuilt", parser.Options{})
	diags := check.Run(doc, nil, nil, check.Options{Version: "6.0.0"})
	if got := codes(diags); !reflect.DeepEqual(got, []diag.Code{diag.UnknownVersion, diag.UnknownCommand}) {
		t.Fatalf("got %v", got)
	}
	if !strings.Contains(diags[0].Message, `"6.0.0"`) || !diags[0].Primary.Empty() {
		t.Fatalf("document diagnostic %+v", diags[0])
	}
}

func TestDeterministic(t *testing.T) {
	tb := table(t, "8.0.0")
	text := "startup:x --batch --nobatch\nbuild: --nocopt --foo -Z\nquery --keep_going\n"
	_, first := run(t, tb, text, nil, check.Options{})
	for range 5 {
		_, again := run(t, tb, text, nil, check.Options{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("diagnostics differ between runs")
		}
	}
	for i := 1; i < len(first); i++ {
		if diag.Less(first[i], first[i-1]) {
			t.Fatalf("diagnostics out of order at %d", i)
		}
	}
	_, capped := run(t, tb, text, nil, check.Options{Max: 2})
	if !reflect.DeepEqual(capped, first[:2]) {
		t.Fatalf("Max kept %+v, want the first two of %+v", capped, first)
	}
}
