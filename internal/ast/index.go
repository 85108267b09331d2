package ast

import (
	"github.com/tidwall/btree"

	"bazelrc-lsp/internal/source"
)

// EntryKind classifies an indexed span.
type EntryKind uint8

const (
	EntryCommand EntryKind = iota
	EntryConfig
	EntryFlagName
	// EntryFlagValue covers the value together with its `=` for equals-form flags.
	EntryFlagValue
	EntryPositional
	EntryComment
)

func (k EntryKind) String() string {
	switch k {
	case EntryCommand:
		return "command"
	case EntryConfig:
		return "config"
	case EntryFlagName:
		return "flag"
	case EntryFlagValue:
		return "value"
	case EntryPositional:
		return "positional"
	case EntryComment:
		return "comment"
	}
	return "unknown"
}

// Entry points from a span back into the document.
type Entry struct {
	Kind EntryKind
	Span source.Span
	// Line is the index into Document.Lines.
	Line int
	// Arg is the index into CommandLine.Args, or -1.
	Arg int
}

// Index answers "what is at this offset" for one document.
type Index struct {
	doc     *Document
	entries *btree.Map[uint32, Entry]
	lines   *btree.Map[uint32, int]
}

// NewIndex builds the offset index of doc.
func NewIndex(doc *Document) *Index {
	ix := &Index{
		doc:     doc,
		entries: btree.NewMap[uint32, Entry](0),
		lines:   btree.NewMap[uint32, int](0),
	}
	for i, l := range doc.Lines {
		ix.lines.Set(l.Extent().Start, i)
		switch l := l.(type) {
		case *CommandLine:
			ix.addCommandLine(i, l)
		case *CommentLine:
			ix.add(Entry{Kind: EntryComment, Span: l.Comment.Span, Line: i, Arg: -1})
		case *BlankLine, *InvalidLine:
		}
	}
	return ix
}

func (ix *Index) addCommandLine(i int, l *CommandLine) {
	if !l.Command.Missing() {
		ix.add(Entry{Kind: EntryCommand, Span: l.Command.Span, Line: i, Arg: -1})
	}
	if l.Config != nil {
		ix.add(Entry{Kind: EntryConfig, Span: l.Config.Span, Line: i, Arg: -1})
	}
	for j := range l.Args {
		arg := &l.Args[j]
		_, nameSpan, ok := arg.FlagName()
		if !ok {
			ix.add(Entry{Kind: EntryPositional, Span: arg.Span, Line: i, Arg: j})
			continue
		}
		ix.add(Entry{Kind: EntryFlagName, Span: nameSpan, Line: i, Arg: j})
		val := arg.FlagValue()
		if val == nil {
			continue
		}
		span := val.Span
		if arg.Form == FormEquals {
			span.Start = nameSpan.End
		}
		ix.add(Entry{Kind: EntryFlagValue, Span: span, Line: i, Arg: j})
	}
	if l.Comment != nil {
		ix.add(Entry{Kind: EntryComment, Span: l.Comment.Span, Line: i, Arg: -1})
	}
}

func (ix *Index) add(e Entry) {
	if e.Span.Empty() {
		return
	}
	ix.entries.Set(e.Span.Start, e)
}

// Document returns the indexed document.
func (ix *Index) Document() *Document {
	return ix.doc
}

// Find returns the entry whose span contains off.
func (ix *Index) Find(off uint32) (Entry, bool) {
	var found Entry
	ok := false
	ix.entries.Descend(off, func(_ uint32, e Entry) bool {
		found, ok = e, e.Span.Contains(off)
		return false
	})
	return found, ok
}

// LineAt returns the index of the line whose text touches off, treating the
// end of the line text as part of it.
func (ix *Index) LineAt(off uint32) (int, bool) {
	idx := -1
	ix.lines.Descend(off, func(_ uint32, i int) bool {
		idx = i
		return false
	})
	if idx < 0 || !ix.doc.Lines[idx].Span().Touches(off) {
		return 0, false
	}
	return idx, true
}

// Entries returns every entry in source order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, ix.entries.Len())
	ix.entries.Scan(func(_ uint32, e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}
