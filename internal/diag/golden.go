package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bazelrc-lsp/internal/source"
)

// shortLine is one rendered line of the compact format.
type shortLine struct {
	sev  string
	code string
	pos  source.LineCol
	msg  string
}

func (l shortLine) compare(o shortLine) int {
	return cmp.Or(
		cmp.Compare(l.pos.Line, o.pos.Line),
		cmp.Compare(l.pos.Col, o.pos.Col),
		cmp.Compare(l.code, o.code),
	)
}

// FormatGoldenDiagnostics renders diagnostics of file one per line, like
// `error CMD2002 .bazelrc:1:1 Unknown command "buil"`. Notes follow their
// diagnostic when includeNotes is set. The result is empty when there is
// nothing to report.
func FormatGoldenDiagnostics(diags []Diagnostic, file *source.File, includeNotes bool) string {
	return formatShort(diags, file, "", includeNotes)
}

// FormatShortDiagnostics is FormatGoldenDiagnostics with paths shown relative
// to baseDir, for CLI output.
func FormatShortDiagnostics(diags []Diagnostic, file *source.File, baseDir string, includeNotes bool) string {
	return formatShort(diags, file, baseDir, includeNotes)
}

func formatShort(diags []Diagnostic, file *source.File, baseDir string, includeNotes bool) string {
	if file == nil || len(diags) == 0 {
		return ""
	}
	path := strings.TrimPrefix(file.DisplayPath(baseDir), "./")

	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		start, _ := file.Resolve(d.Primary)
		lines = append(lines, shortLine{sev: d.Severity.Label(), code: d.Code.ID(), pos: start, msg: oneLine(d.Message)})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := file.Resolve(n.Span)
			lines = append(lines, shortLine{sev: "note", code: d.Code.ID(), pos: ns, msg: oneLine(n.Msg)})
		}
	}
	slices.SortStableFunc(lines, shortLine.compare)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, path, l.pos.Line, l.pos.Col, l.msg)
	}
	return strings.Join(out, "\n")
}

func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
