package ast

import "slices"

// Equal reports whether a and b have the same structure. Spans, quoting and
// the Continued bit are ignored. Blank runs compare as one blank line and
// leading or trailing blank lines are ignored, since neither survives
// formatting.
func Equal(a, b *Document) bool {
	return comparer{}.documents(a, b)
}

// EqualValues is Equal with `--flag value` and `--flag=value` treated as the
// same argument, which is what normalising values preserves.
func EqualValues(a, b *Document) bool {
	return comparer{ignoreForm: true}.documents(a, b)
}

type comparer struct {
	ignoreForm bool
}

func (c comparer) documents(a, b *Document) bool {
	la, lb := foldBlanks(a.Lines), foldBlanks(b.Lines)
	return slices.EqualFunc(la, lb, c.line)
}

func foldBlanks(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if _, blank := l.(*BlankLine); blank {
			if len(out) == 0 {
				continue
			}
			if _, prev := out[len(out)-1].(*BlankLine); prev {
				continue
			}
		}
		out = append(out, l)
	}
	for len(out) > 0 {
		if _, blank := out[len(out)-1].(*BlankLine); !blank {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}

func (c comparer) line(a, b Line) bool {
	switch x := a.(type) {
	case *BlankLine:
		_, ok := b.(*BlankLine)
		return ok
	case *CommentLine:
		y, ok := b.(*CommentLine)
		return ok && slices.Equal(x.Comment.Trimmed(true), y.Comment.Trimmed(true))
	case *InvalidLine:
		y, ok := b.(*InvalidLine)
		return ok && x.Raw == y.Raw
	case *CommandLine:
		y, ok := b.(*CommandLine)
		return ok && c.command(x, y)
	}
	return false
}

func (c comparer) command(a, b *CommandLine) bool {
	if a.Command.Name != b.Command.Name || a.Command.Missing() != b.Command.Missing() {
		return false
	}
	if (a.Config == nil) != (b.Config == nil) {
		return false
	}
	if a.Config != nil && a.Config.Name != b.Config.Name {
		return false
	}
	if (a.Comment == nil) != (b.Comment == nil) {
		return false
	}
	if a.Comment != nil {
		if a.Comment.BreakBefore != b.Comment.BreakBefore ||
			!slices.Equal(a.Comment.Trimmed(false), b.Comment.Trimmed(false)) {
			return false
		}
	}
	return slices.EqualFunc(a.Args, b.Args, c.arg)
}

func (c comparer) arg(a, b Argument) bool {
	if a.BreakBefore != b.BreakBefore {
		return false
	}
	// a value moved next to its flag may lose the line break before it
	looseValue := c.ignoreForm && a.Form != b.Form
	if a.Form != b.Form && !looseValue {
		return false
	}
	equalValue := func(x, y *Value) bool { return sameValue(x, y, looseValue) }
	switch x := a.Shape.(type) {
	case *LongFlag:
		y, ok := b.Shape.(*LongFlag)
		return ok && x.Name == y.Name && equalValue(x.Value, y.Value)
	case *Shorthand:
		y, ok := b.Shape.(*Shorthand)
		return ok && x.Letter == y.Letter && equalValue(x.Value, y.Value)
	case *CustomSetting:
		y, ok := b.Shape.(*CustomSetting)
		return ok && x.Label == y.Label && equalValue(x.Value, y.Value)
	case *Positional:
		y, ok := b.Shape.(*Positional)
		return ok && equalValue(&x.Value, &y.Value)
	}
	return false
}

func sameValue(a, b *Value, ignoreBreak bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Text == b.Text && (ignoreBreak || a.BreakBefore == b.BreakBefore)
}
