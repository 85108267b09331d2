package lexer_test

import (
	"reflect"
	"testing"

	"bazelrc-lsp/internal/lexer"
	"bazelrc-lsp/internal/source"
)

// makeFile wraps text into a source file with ID 0.
func makeFile(text string) *source.File {
	return source.NewFile("test.bazelrc", []byte(text), source.FileVirtual)
}

func wordTexts(t *testing.T, text string) []string {
	t.Helper()
	lines := lexer.Join(makeFile(text))
	if len(lines) != 1 {
		t.Fatalf("expected 1 logical line, got %d", len(lines))
	}
	words, _, err := lexer.Scan(&lines[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.Text)
	}
	return out
}

func TestJoinContinuations(t *testing.T) {
	f := makeFile("build --a \\\n  --b\ntest\\\\\nrun \\  \n--c")
	lines := lexer.Join(f)
	if len(lines) != 3 {
		t.Fatalf("expected 3 logical lines, got %d", len(lines))
	}
	if lines[0].Text != "build --a   --b" || lines[0].Physical != 2 {
		t.Fatalf("line 0: %q (%d physical)", lines[0].Text, lines[0].Physical)
	}
	// even number of backslashes does not continue
	if lines[1].Text != `test\\` || lines[1].Physical != 1 {
		t.Fatalf("line 1: %q", lines[1].Text)
	}
	// blanks after the backslash are trimmed before the check
	if lines[2].Text != "run --c" || lines[2].First != 3 {
		t.Fatalf("line 2: %q first=%d", lines[2].Text, lines[2].First)
	}
}

func TestJoinOffsetProvenance(t *testing.T) {
	src := "build \\\n    --b"
	lines := lexer.Join(makeFile(src))
	ll := lines[0]
	if ll.Text != "build     --b" {
		t.Fatalf("text %q", ll.Text)
	}
	want := []lexer.Segment{
		{Orig: source.Span{Start: 0, End: 6}, Logical: 0},
		{Orig: source.Span{Start: 8, End: 15}, Logical: 6},
	}
	if !reflect.DeepEqual(ll.Segments, want) {
		t.Fatalf("segments %+v", ll.Segments)
	}
	// "--b" starts at logical 10, original 12
	if got := ll.Orig(10); got != 12 {
		t.Fatalf("Orig(10) = %d", got)
	}
	if got := ll.OrigEnd(6); got != 6 {
		t.Fatalf("OrigEnd(6) = %d", got)
	}
	if ll.Span != (source.Span{Start: 0, End: 15}) {
		t.Fatalf("span %v", ll.Span)
	}
}

func TestJoinEmptyAndTrailingNewline(t *testing.T) {
	if got := lexer.Join(makeFile("")); len(got) != 0 {
		t.Fatalf("empty file produced %d lines", len(got))
	}
	lines := lexer.Join(makeFile("a\n\nb\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Text != "" || lines[1].Extent != (source.Span{Start: 2, End: 3}) {
		t.Fatalf("blank line %+v", lines[1])
	}
}

func TestJoinCRLF(t *testing.T) {
	lines := lexer.Join(makeFile("build \\\r\n--a\r\ntest\r\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "build --a" {
		t.Fatalf("text %q", lines[0].Text)
	}
	if lines[1].Span != (source.Span{Start: 14, End: 18}) {
		t.Fatalf("span %v", lines[1].Span)
	}
}

func TestScanQuoting(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"build --x=1    --y", []string{"build", "--x=1", "--y"}},
		{`--x=a\ bc"1 2 3"`, []string{"--x=a bc1 2 3"}},
		{`-"-x=abc12"3`, []string{"--x=abc123"}},
		{`--\x=a\bc`, []string{"--x=abc"}},
		{`'a "b" c' "d 'e'"`, []string{`a "b" c`, "d 'e'"}},
		{`"" x`, []string{"", "x"}},
		{`"a#b" c`, []string{"a#b", "c"}},
		{"build:o\\ p\\ t", []string{"build:o p t"}},
		{"Täst", []string{"Täst"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := wordTexts(t, tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanComment(t *testing.T) {
	lines := lexer.Join(makeFile("build --a#trailing \\\n more"))
	words, comment, err := lexer.Scan(&lines[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 || words[1].Text != "--a" {
		t.Fatalf("words %+v", words)
	}
	if comment == nil || comment.Text != "trailing  more" {
		t.Fatalf("comment %+v", comment)
	}
	if !reflect.DeepEqual(comment.Parts(), []string{"trailing ", " more"}) {
		t.Fatalf("parts %q", comment.Parts())
	}
	if comment.Span != (source.Span{Start: 9, End: 26}) {
		t.Fatalf("comment span %v", comment.Span)
	}
}

func TestScanSpans(t *testing.T) {
	src := `build "--x= y" \` + "\n" + `  --z`
	lines := lexer.Join(makeFile(src))
	words, _, err := lexer.Scan(&lines[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[1].Span != (source.Span{Start: 6, End: 14}) || !words[1].Quoted {
		t.Fatalf("quoted word %+v", words[1])
	}
	if words[2].Span != (source.Span{Start: 19, End: 22}) {
		t.Fatalf("continued word span %v", words[2].Span)
	}
	if !lines[0].HasBreak(words[1].LEnd, words[2].LStart) {
		t.Fatalf("expected a physical break before --z")
	}

	_, tail, ok := words[1].Cut('=')
	if !ok || tail.Text != " y" {
		t.Fatalf("cut: %+v", tail)
	}
	if tail.Span != (source.Span{Start: 11, End: 14}) {
		t.Fatalf("tail span %v", tail.Span)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []string{
		`build "--x=1`,
		`build 'a`,
		`build "a\`,
	}
	for _, in := range tests {
		lines := lexer.Join(makeFile(in))
		_, _, err := lexer.Scan(&lines[0])
		if err == nil {
			t.Fatalf("%q: expected an error", in)
		}
		if err.Span.Start != 6 {
			t.Fatalf("%q: error span %v", in, err.Span)
		}
	}
}

func TestLexerNext(t *testing.T) {
	lx := lexer.New(makeFile("# c\nbuild\n"))
	if lx.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", lx.Len())
	}
	first, ok := lx.Next()
	if !ok || first.Comment == nil || len(first.Words) != 0 {
		t.Fatalf("first line %+v", first)
	}
	second, ok := lx.Next()
	if !ok || len(second.Words) != 1 || second.Words[0].Text != "build" {
		t.Fatalf("second line %+v", second)
	}
	if _, ok := lx.Next(); ok {
		t.Fatalf("expected end of input")
	}
}
