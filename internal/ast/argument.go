package ast

import (
	"strings"

	"bazelrc-lsp/internal/source"
)

// Form records how a flag's value was written.
type Form uint8

const (
	// FormBare has no value: `--flag`, `-k`, `value`.
	FormBare Form = iota
	// FormEquals is `--flag=value`.
	FormEquals
	// FormSpace is `--flag value`, two words bound by the value arity.
	FormSpace
)

func (f Form) String() string {
	switch f {
	case FormEquals:
		return "equals"
	case FormSpace:
		return "space"
	default:
		return "bare"
	}
}

// Argument is one flag or positional value of a CommandLine.
type Argument struct {
	Span  source.Span
	Shape Shape
	Form  Form
	// BreakBefore is set when the argument starts on a continuation line.
	BreakBefore bool
}

// Shape is one of *LongFlag, *Shorthand, *CustomSetting or *Positional.
type Shape interface {
	shape()
}

// Value is the value part of a flag or a positional word.
type Value struct {
	Text string
	Span source.Span
	// Quoted is set when the source used quotes anywhere in the word.
	Quoted bool
	// BreakBefore is set for a space-form value on a continuation line.
	BreakBefore bool
}

// LongFlag is `--name[=value]`.
type LongFlag struct {
	// Name excludes the leading dashes and includes a `no` prefix if present.
	Name string
	// NameSpan covers the dashes and the name.
	NameSpan source.Span
	// Negated is set when Name starts with `no`; lookup tries both spellings.
	Negated bool
	Value   *Value
}

// Base returns the name without the negation prefix.
func (f *LongFlag) Base() string {
	if f.Negated {
		return strings.TrimPrefix(f.Name, "no")
	}
	return f.Name
}

// Shorthand is `-k`, an abbreviated flag.
type Shorthand struct {
	Letter   string
	NameSpan source.Span
	Value    *Value
}

// CustomSetting is a Starlark build setting, `--//pkg:flag` or `--@repo//:flag`.
type CustomSetting struct {
	// Label excludes the leading dashes.
	Label    string
	NameSpan source.Span
	Value    *Value
}

// Positional is a word that is not a flag, like an import path.
type Positional struct {
	Value Value
}

func (*LongFlag) shape()      {}
func (*Shorthand) shape()     {}
func (*CustomSetting) shape() {}
func (*Positional) shape()    {}

// FlagName returns the written name with dashes (`--name`, `-k`) and its
// span, or ok=false for positionals.
func (a *Argument) FlagName() (name string, span source.Span, ok bool) {
	switch s := a.Shape.(type) {
	case *LongFlag:
		return "--" + s.Name, s.NameSpan, true
	case *Shorthand:
		return "-" + s.Letter, s.NameSpan, true
	case *CustomSetting:
		return "--" + s.Label, s.NameSpan, true
	case *Positional:
		return "", source.Span{}, false
	}
	return "", source.Span{}, false
}

// FlagValue returns the value of the argument, if any.
func (a *Argument) FlagValue() *Value {
	switch s := a.Shape.(type) {
	case *LongFlag:
		return s.Value
	case *Shorthand:
		return s.Value
	case *CustomSetting:
		return s.Value
	case *Positional:
		return &s.Value
	}
	return nil
}
