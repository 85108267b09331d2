package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/source"
)

// SpanOutput is a span with its 1-based start and end positions.
type SpanOutput struct {
	Start     uint32 `json:"start" yaml:"start"`
	End       uint32 `json:"end" yaml:"end"`
	StartLine uint32 `json:"start_line" yaml:"start_line"`
	StartCol  uint32 `json:"start_col" yaml:"start_col"`
	EndLine   uint32 `json:"end_line" yaml:"end_line"`
	EndCol    uint32 `json:"end_col" yaml:"end_col"`
}

type ArgumentOutput struct {
	Kind  string     `json:"kind" yaml:"kind"`
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
	Form  string     `json:"form" yaml:"form"`
	Value *string    `json:"value,omitempty" yaml:"value,omitempty"`
	Span  SpanOutput `json:"span" yaml:"span"`
}

type LineOutput struct {
	Kind      string           `json:"kind" yaml:"kind"`
	Span      SpanOutput       `json:"span" yaml:"span"`
	Command   string           `json:"command,omitempty" yaml:"command,omitempty"`
	Config    *string          `json:"config,omitempty" yaml:"config,omitempty"`
	Args      []ArgumentOutput `json:"args,omitempty" yaml:"args,omitempty"`
	Comment   *string          `json:"comment,omitempty" yaml:"comment,omitempty"`
	Continued bool             `json:"continued,omitempty" yaml:"continued,omitempty"`
	Raw       string           `json:"raw,omitempty" yaml:"raw,omitempty"`
	Reason    string           `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type DocumentOutput struct {
	File  string       `json:"file" yaml:"file"`
	Lines []LineOutput `json:"lines" yaml:"lines"`
}

// BuildDocumentOutput converts doc into its serializable form.
func BuildDocumentOutput(doc *ast.Document, path string) DocumentOutput {
	out := DocumentOutput{File: path, Lines: make([]LineOutput, 0, len(doc.Lines))}
	for _, line := range doc.Lines {
		out.Lines = append(out.Lines, lineOutput(doc.File, line))
	}
	return out
}

func spanOutput(f *source.File, sp source.Span) SpanOutput {
	start, end := f.Resolve(sp)
	return SpanOutput{
		Start:     sp.Start,
		End:       sp.End,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}
}

func lineOutput(f *source.File, line ast.Line) LineOutput {
	lo := LineOutput{Span: spanOutput(f, line.Span())}
	switch l := line.(type) {
	case *ast.CommandLine:
		lo.Kind = "command"
		lo.Command = l.Command.Name
		lo.Continued = l.Continued
		if l.Config != nil {
			name := l.Config.Name
			lo.Config = &name
		}
		for i := range l.Args {
			lo.Args = append(lo.Args, argumentOutput(f, &l.Args[i]))
		}
		if l.Comment != nil {
			text := l.Comment.Text
			lo.Comment = &text
		}
	case *ast.CommentLine:
		lo.Kind = "comment"
		text := l.Comment.Text
		lo.Comment = &text
	case *ast.BlankLine:
		lo.Kind = "blank"
	case *ast.InvalidLine:
		lo.Kind = "invalid"
		lo.Raw = l.Raw
		lo.Reason = l.Reason
	}
	return lo
}

func argumentOutput(f *source.File, arg *ast.Argument) ArgumentOutput {
	ao := ArgumentOutput{Form: arg.Form.String(), Span: spanOutput(f, arg.Span)}
	switch s := arg.Shape.(type) {
	case *ast.LongFlag:
		ao.Kind = "flag"
	case *ast.Shorthand:
		ao.Kind = "shorthand"
	case *ast.CustomSetting:
		ao.Kind = "setting"
	case *ast.Positional:
		ao.Kind = "positional"
		text := s.Value.Text
		ao.Value = &text
		return ao
	}
	ao.Name, _, _ = arg.FlagName()
	if v := arg.FlagValue(); v != nil {
		text := v.Text
		ao.Value = &text
	}
	return ao
}

// FormatASTJSON writes doc as indented JSON.
func FormatASTJSON(w io.Writer, doc *ast.Document, path string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDocumentOutput(doc, path))
}

// FormatASTYAML writes doc as YAML.
func FormatASTYAML(w io.Writer, doc *ast.Document, path string) error {
	return yaml.NewEncoder(w, yaml.Indent(2)).Encode(BuildDocumentOutput(doc, path))
}

// FormatASTPretty writes doc as a tree, one node per line.
func FormatASTPretty(w io.Writer, doc *ast.Document, path string) error {
	out := BuildDocumentOutput(doc, path)
	if _, err := fmt.Fprintln(w, out.File); err != nil {
		return err
	}
	for i, l := range out.Lines {
		branch, indent := "├─ ", "│  "
		if i == len(out.Lines)-1 {
			branch, indent = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s[%d] %s (%s)\n", branch, i, lineLabel(&l), spanLabel(l.Span)); err != nil {
			return err
		}
		children := childLabels(&l)
		for j, c := range children {
			sub := "├─ "
			if j == len(children)-1 {
				sub = "└─ "
			}
			if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, sub, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func spanLabel(s SpanOutput) string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

func lineLabel(l *LineOutput) string {
	switch l.Kind {
	case "command":
		head := l.Command
		if head == "" {
			head = "<missing>"
		}
		if l.Config != nil {
			head += ":" + *l.Config
		}
		if l.Continued {
			head += " continued"
		}
		return "command " + head
	case "invalid":
		return fmt.Sprintf("invalid %q: %s", l.Raw, l.Reason)
	}
	return l.Kind
}

func childLabels(l *LineOutput) []string {
	var out []string
	for _, a := range l.Args {
		label := a.Kind
		if a.Name != "" {
			label += " " + a.Name
		}
		if a.Value != nil {
			label += fmt.Sprintf(" = %q", *a.Value)
		}
		out = append(out, fmt.Sprintf("%s [%s] (%s)", label, a.Form, spanLabel(a.Span)))
	}
	if l.Comment != nil {
		out = append(out, fmt.Sprintf("comment %q", strings.TrimSpace(*l.Comment)))
	}
	return out
}
