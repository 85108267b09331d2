package ast

import (
	"regexp"
	"strings"

	"bazelrc-lsp/internal/source"
)

// Document is the parsed form of one bazelrc file.
type Document struct {
	File  *source.File
	Lines []Line
}

// Line is one logical line. The variants are *CommandLine, *CommentLine,
// *BlankLine and *InvalidLine; consumers switch over them exhaustively.
type Line interface {
	// Span covers the original bytes of the logical line without the final newline.
	Span() source.Span
	// Extent additionally covers the terminating newline.
	Extent() source.Span
	line()
}

// Bounds is embedded by every Line variant.
type Bounds struct {
	Loc source.Span
	Ext source.Span
}

func (b Bounds) Span() source.Span   { return b.Loc }
func (b Bounds) Extent() source.Span { return b.Ext }

// CommandLine is `command[:config] args... [# comment]`.
type CommandLine struct {
	Bounds
	Command Command
	// Config is nil when the command word has no colon.
	Config  *ConfigName
	Args    []Argument
	Comment *Comment
	// Continued is set when the line spans several physical lines.
	Continued bool
}

// CommentLine holds only a comment.
type CommentLine struct {
	Bounds
	Comment Comment
}

// BlankLine holds nothing but whitespace.
type BlankLine struct {
	Bounds
}

// InvalidLine could not be tokenized; the rest of the document is unaffected.
type InvalidLine struct {
	Bounds
	Raw    string
	Reason string
	// At locates the offending bytes.
	At source.Span
}

func (*CommandLine) line() {}
func (*CommentLine) line() {}
func (*BlankLine) line()   {}
func (*InvalidLine) line() {}

// Command is the command keyword of a line.
type Command struct {
	Keyword Keyword
	// Name is the unquoted keyword text. It is empty both for a line without
	// a command word and for a quoted empty word like `""`.
	Name string
	// Span covers the raw word; it is empty only when the word is missing.
	Span source.Span
}

// Missing reports whether the line lacks a command word. A line starting
// with `""` has one, it just names no command.
func (c Command) Missing() bool {
	return c.Name == "" && c.Span.Empty()
}

// ConfigName is the part after the colon in `build:name`.
type ConfigName struct {
	Name string
	// Span includes the colon.
	Span source.Span
}

var configNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Empty reports whether nothing follows the colon.
func (c *ConfigName) Empty() bool {
	return c.Name == ""
}

// Valid reports whether the name is a plain identifier.
func (c *ConfigName) Valid() bool {
	return configNameRe.MatchString(c.Name)
}

// Comment is a `#` comment, possibly continued across physical lines.
type Comment struct {
	// Text follows the '#', unmodified.
	Text string
	Span source.Span
	// Breaks are the indexes into Text where a physical line ended.
	Breaks []int
	// BreakBefore is set when the comment starts on a continuation line.
	BreakBefore bool
}

// Parts splits Text at its physical line breaks.
func (c Comment) Parts() []string {
	if len(c.Breaks) == 0 {
		return []string{c.Text}
	}
	parts := make([]string, 0, len(c.Breaks)+1)
	prev := 0
	for _, b := range c.Breaks {
		parts = append(parts, c.Text[prev:b])
		prev = b
	}
	return append(parts, c.Text[prev:])
}

// Trimmed returns the parts with surrounding whitespace of the whole comment
// removed: trailing only when keepLeading is set, both ends otherwise.
func (c Comment) Trimmed(keepLeading bool) []string {
	parts := c.Parts()
	last := len(parts) - 1
	parts[last] = strings.TrimRight(parts[last], " \t\r")
	if !keepLeading {
		parts[0] = strings.TrimLeft(parts[0], " \t\r")
	}
	return parts
}
