package lsp

import (
	"reflect"
	"strings"
	"testing"
)

func analyzeText(t *testing.T, text string) *snapshot {
	t.Helper()
	server, _ := newTestServer(t, "")
	snap := server.analyze("untitled:test", 1, text)
	if snap.table == nil {
		t.Fatalf("no flag table for %+v", snap.resolution)
	}
	return snap
}

func labels(items []completionItem) map[string]completionItem {
	out := make(map[string]completionItem, len(items))
	for _, it := range items {
		out[it.Label] = it
	}
	return out
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		off     uint32
		want    []string
		missing []string
	}{
		{"empty file", "", 0, []string{"build", "startup", "try-import"}, []string{"keep_going"}},
		{"command prefix", "bui", 3, []string{"build", "common"}, nil},
		{"flag prefix", "build --kee", 11, []string{"keep_going", "nokeep_going"}, []string{"build"}},
		{"after command", "build ", 6, []string{"keep_going", "jobs"}, []string{"batch"}},
		{"startup flags", "startup --b", 11, []string{"batch", "nobatch"}, []string{"keep_going"}},
		{"new line", "build --jobs=2\n", 15, []string{"build"}, []string{"keep_going"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := analyzeText(t, tt.text)
			got := labels(buildCompletion(snap, tt.off))
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("missing %q", w)
				}
			}
			for _, m := range tt.missing {
				if _, ok := got[m]; ok {
					t.Errorf("unexpected %q", m)
				}
			}
		})
	}
}

func TestCompletionNothing(t *testing.T) {
	tests := []struct {
		text string
		off  uint32
	}{
		{"build:op", 8},
		{"build --jobs=4", 14},
		{"# comment", 5},
		{"build --a # note", 16},
		{"--keep_going --x", 16},
		{"import foo", 10},
		{"build --//foo", 13},
		{"build --@rep", 12},
		{"build --@rules_go//go/config:pure=true", 20},
	}
	for _, tt := range tests {
		snap := analyzeText(t, tt.text)
		if got := buildCompletion(snap, tt.off); len(got) != 0 {
			t.Errorf("%q at %d: %d items", tt.text, tt.off, len(got))
		}
	}
}

func TestCompletionItems(t *testing.T) {
	snap := analyzeText(t, "build --kee")
	got := labels(buildCompletion(snap, 11))

	keep := got["keep_going"]
	wantRange := lspRange{Start: position{0, 6}, End: position{0, 11}}
	if keep.TextEdit == nil || keep.TextEdit.NewText != "--keep_going" || keep.TextEdit.Range != wantRange {
		t.Fatalf("keep_going edit %+v", keep.TextEdit)
	}
	if keep.FilterText != "--keep_going" || !reflect.DeepEqual(keep.CommitCharacters, []string{"="}) {
		t.Fatalf("keep_going item %+v", keep)
	}
	if keep.Documentation == nil || !strings.HasPrefix(keep.Documentation.Value, "`--keep_going` [`-k`]") {
		t.Fatalf("documentation %+v", keep.Documentation)
	}
	if neg := got["nokeep_going"]; neg.TextEdit == nil || neg.TextEdit.NewText != "--nokeep_going" || len(neg.CommitCharacters) != 0 {
		t.Fatalf("nokeep_going item %+v", neg)
	}
	if _, ok := got["experimental_ui_max_stdouterr_bytes"]; ok {
		t.Fatalf("undocumented flag offered")
	}

	snap = analyzeText(t, "build ")
	got = labels(buildCompletion(snap, 6))
	if e := got["keep_going"].TextEdit; e == nil || e.Range != (lspRange{Start: position{0, 6}, End: position{0, 6}}) {
		t.Fatalf("insert range %+v", e)
	}

	snap = analyzeText(t, "startup --ba")
	batch := labels(buildCompletion(snap, 12))["batch"]
	if !batch.Deprecated || !reflect.DeepEqual(batch.Tags, []int{completionItemTagDeprecated}) {
		t.Fatalf("batch item %+v", batch)
	}

	cmds := labels(buildCompletion(analyzeText(t, ""), 0))
	build := cmds["build"]
	if build.Kind != completionItemKindKeyword || build.Documentation == nil || build.Documentation.Value != "Builds the specified targets." {
		t.Fatalf("build item %+v", build)
	}
	if !reflect.DeepEqual(build.CommitCharacters, []string{":"}) {
		t.Fatalf("commit characters %v", build.CommitCharacters)
	}
}

func TestHover(t *testing.T) {
	snap := analyzeText(t, "build --keep_going -k --jobs 4 --no_such\n")

	h := buildHover(snap, 8)
	if h == nil || !strings.HasPrefix(h.Contents.Value, "`--keep_going` [`-k`], `--nokeep_going`") {
		t.Fatalf("flag hover %+v", h)
	}
	if *h.Range != (lspRange{Start: position{0, 6}, End: position{0, 18}}) {
		t.Fatalf("range %+v", h.Range)
	}
	if h := buildHover(snap, 20); h == nil || !strings.HasPrefix(h.Contents.Value, "`--keep_going`") {
		t.Fatalf("shorthand hover %+v", h)
	}
	if h := buildHover(snap, 29); h == nil || !strings.HasPrefix(h.Contents.Value, "`--jobs` [`-j`]") {
		t.Fatalf("value hover %+v", h)
	}
	if h := buildHover(snap, 2); h == nil || h.Contents.Value != "Builds the specified targets." {
		t.Fatalf("command hover %+v", h)
	}
	if h := buildHover(snap, 34); h != nil {
		t.Fatalf("unknown flag hover %+v", h)
	}
	if h := buildHover(snap, 5); h != nil {
		t.Fatalf("whitespace hover %+v", h)
	}
}

func TestSemanticTokens(t *testing.T) {
	snap := analyzeText(t, "build:opt --keep_going=1 # c\n# a \\\n  b\n")
	got := encodeSemanticTokens(snap.file, collectSemanticTokens(snap), snap.enc)
	want := []uint32{
		0, 0, 5, tokKeyword, 0,
		0, 6, 3, tokNamespace, 0,
		0, 4, 12, tokVariable, 0,
		0, 13, 1, tokString, 0,
		0, 2, 3, tokComment, 0,
		1, 0, 5, tokComment, 0,
		1, 0, 3, tokComment, 0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens\n got %v\nwant %v", got, want)
	}

	snap = analyzeText(t, "build --experimental_action_cache_store_output_metadata")
	got = encodeSemanticTokens(snap.file, collectSemanticTokens(snap), snap.enc)
	if len(got) != 10 || got[9] != modDeprecated {
		t.Fatalf("renamed flag tokens %v", got)
	}
}

func TestFoldingRanges(t *testing.T) {
	snap := analyzeText(t, "# a\n# b\nbuild --a \\\n  --b\n# single\nbuild --c\n")
	got := buildFoldingRanges(snap)
	want := []foldingRange{
		{StartLine: 0, EndLine: 1, Kind: "comment"},
		{StartLine: 2, EndLine: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("folding ranges %+v", got)
	}
}

func TestPositionEncodings(t *testing.T) {
	text := "a\U0001F600b\nc"
	snap := analyzeText(t, text)
	tests := []struct {
		enc  posEncoding
		char int
	}{
		{encUTF16, 3},
		{encUTF8, 5},
		{encUTF32, 2},
	}
	for _, tt := range tests {
		pos := position{Line: 0, Character: tt.char}
		if off := offsetForPositionInFile(snap.file, pos, tt.enc); off != 5 {
			t.Errorf("%s: offset %d", tt.enc, off)
		}
		if off := offsetForPosition(text, pos, tt.enc); off != 5 {
			t.Errorf("%s: text offset %d", tt.enc, off)
		}
		if got := positionForOffsetInFile(snap.file, 5, tt.enc); got != pos {
			t.Errorf("%s: position %+v", tt.enc, got)
		}
	}
	if off := offsetForPositionInFile(snap.file, position{0, 99}, encUTF16); off != 6 {
		t.Errorf("past line end: %d", off)
	}
	if off := offsetForPositionInFile(snap.file, position{5, 0}, encUTF16); off != 8 {
		t.Errorf("past last line: %d", off)
	}
	if got := positionForOffsetInFile(snap.file, 7, encUTF16); got != (position{1, 0}) {
		t.Errorf("second line: %+v", got)
	}

	changes := []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{0, 1}, End: position{0, 3}}, Text: "X"},
		{Range: &lspRange{Start: position{1, 1}, End: position{1, 1}}, Text: "d"},
	}
	if got := applyChanges(text, changes, encUTF16); got != "aXb\ncd" {
		t.Errorf("applyChanges = %q", got)
	}
	if got := applyChanges(text, []textDocumentContentChangeEvent{{Text: "new"}}, encUTF16); got != "new" {
		t.Errorf("full change = %q", got)
	}
	if got := negotiateEncoding([]string{"utf-7", "utf-8"}); got != encUTF8 {
		t.Errorf("negotiated %s", got)
	}
	if got := negotiateEncoding(nil); got != encUTF16 {
		t.Errorf("default %s", got)
	}
}
