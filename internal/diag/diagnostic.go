package diag

import (
	"bazelrc-lsp/internal/source"
)

// Note points at a related location, such as the command a flag line uses.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces Span with NewText. An empty NewText deletes the span.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is one quick fix. All of its edits are applied together.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Tag carries extra rendering hints for editors.
type Tag uint8

const (
	TagUnnecessary Tag = iota + 1
	TagDeprecated
)

// Diagnostic is one finding of a rule on a bazelrc file.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
	Tags     []Tag
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

func (d Diagnostic) WithTag(tags ...Tag) Diagnostic {
	d.Tags = append(d.Tags, tags...)
	return d
}

// HasTag reports whether d carries tag.
func (d *Diagnostic) HasTag(tag Tag) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
