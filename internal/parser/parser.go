package parser

import (
	"strings"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/lexer"
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/token"
)

// Arity tells the parser which flags take a value, so that `--flag value`
// can be read as one argument.
type Arity interface {
	RequiresValue(name string, shorthand bool) bool
}

type Options struct {
	// Arity is optional; without it every word is an argument of its own.
	Arity Arity
}

// Parser holds the state for one file.
type Parser struct {
	file *source.File
	lx   *lexer.Lexer
	opts Options
}

// Parse turns a file into a document. It never fails: lines that cannot be
// tokenized become *ast.InvalidLine and the rest of the file is unaffected.
func Parse(file *source.File, opts Options) *ast.Document {
	p := Parser{
		file: file,
		lx:   lexer.New(file),
		opts: opts,
	}
	return p.parse()
}

// ParseString parses text as a virtual file.
func ParseString(path, text string, opts Options) *ast.Document {
	return Parse(source.NewFile(path, []byte(text), source.FileVirtual), opts)
}

func (p *Parser) parse() *ast.Document {
	doc := &ast.Document{
		File:  p.file,
		Lines: make([]ast.Line, 0, p.lx.Len()),
	}
	for {
		line, ok := p.lx.Next()
		if !ok {
			break
		}
		doc.Lines = append(doc.Lines, p.parseLine(&line))
	}
	return doc
}

func (p *Parser) parseLine(line *lexer.Line) ast.Line {
	ll := &line.Logical
	bounds := ast.Bounds{Loc: ll.Span, Ext: ll.Extent}

	if line.Err != nil {
		return &ast.InvalidLine{
			Bounds: bounds,
			Raw:    p.file.Text(ll.Span),
			Reason: line.Err.Reason,
			At:     line.Err.Span,
		}
	}
	if len(line.Words) == 0 {
		if line.Comment == nil {
			return &ast.BlankLine{Bounds: bounds}
		}
		return &ast.CommentLine{Bounds: bounds, Comment: makeComment(line.Comment, false)}
	}

	cl := &ast.CommandLine{
		Bounds:    bounds,
		Continued: ll.Physical > 1,
	}
	words := line.Words
	first := words[0]
	if strings.HasPrefix(first.Text, "-") {
		cl.Command = ast.Command{Span: first.Span.At(first.Span.Start)}
	} else {
		head, tail, hasConfig := first.Cut(':')
		cl.Command = ast.Command{
			Keyword: ast.LookupKeyword(head.Text),
			Name:    head.Text,
			Span:    head.Span,
		}
		if hasConfig {
			cl.Config = &ast.ConfigName{
				Name: tail.Text,
				Span: source.Span{File: first.Span.File, Start: head.Span.End, End: first.Span.End},
			}
		}
		words = words[1:]
	}

	prevEnd := first.LEnd
	positional := cl.Command.Keyword.IsImport()
	for i := 0; i < len(words); i++ {
		w := words[i]
		arg := p.classify(w, positional)
		arg.BreakBefore = ll.HasBreak(prevEnd, w.LStart)
		prevEnd = w.LEnd

		if i+1 < len(words) && p.bindsNext(&arg) {
			next := words[i+1]
			val := &ast.Value{
				Text:        next.Text,
				Span:        next.Span,
				Quoted:      next.Quoted,
				BreakBefore: ll.HasBreak(w.LEnd, next.LStart),
			}
			setValue(&arg, val)
			arg.Form = ast.FormSpace
			arg.Span = arg.Span.Cover(next.Span)
			prevEnd = next.LEnd
			i++
		}
		cl.Args = append(cl.Args, arg)
	}

	if line.Comment != nil {
		c := makeComment(line.Comment, ll.HasBreak(prevEnd, line.Comment.LStart))
		cl.Comment = &c
	}
	return cl
}

func makeComment(t *token.Token, breakBefore bool) ast.Comment {
	return ast.Comment{
		Text:        t.Text,
		Span:        t.Span,
		Breaks:      t.Breaks,
		BreakBefore: breakBefore,
	}
}

func (p *Parser) classify(w token.Token, positional bool) ast.Argument {
	arg := ast.Argument{Span: w.Span, Form: ast.FormBare}
	text := w.Text
	switch {
	case positional:
		arg.Shape = &ast.Positional{Value: wordValue(w)}
	case strings.HasPrefix(text, "--//"), strings.HasPrefix(text, "--@"):
		name, val, form := splitValue(w)
		arg.Shape = &ast.CustomSetting{Label: name.Text[2:], NameSpan: name.Span, Value: val}
		arg.Form = form
	case strings.HasPrefix(text, "--"):
		name, val, form := splitValue(w)
		flag := name.Text[2:]
		arg.Shape = &ast.LongFlag{
			Name:     flag,
			NameSpan: name.Span,
			Negated:  len(flag) > 2 && strings.HasPrefix(flag, "no"),
			Value:    val,
		}
		arg.Form = form
	case len(text) > 1 && text[0] == '-':
		name, val, form := splitValue(w)
		arg.Shape = &ast.Shorthand{Letter: name.Text[1:], NameSpan: name.Span, Value: val}
		arg.Form = form
	default:
		arg.Shape = &ast.Positional{Value: wordValue(w)}
	}
	return arg
}

func splitValue(w token.Token) (name token.Token, val *ast.Value, form ast.Form) {
	head, tail, ok := w.Cut('=')
	if !ok {
		return w, nil, ast.FormBare
	}
	return head, &ast.Value{Text: tail.Text, Span: tail.Span, Quoted: w.Quoted}, ast.FormEquals
}

func wordValue(w token.Token) ast.Value {
	return ast.Value{Text: w.Text, Span: w.Span, Quoted: w.Quoted}
}

// bindsNext reports whether arg is a valueless flag that requires a value.
// The following word is taken whatever it looks like, like Bazel does.
func (p *Parser) bindsNext(arg *ast.Argument) bool {
	if p.opts.Arity == nil || arg.Form != ast.FormBare {
		return false
	}
	switch s := arg.Shape.(type) {
	case *ast.LongFlag:
		return p.opts.Arity.RequiresValue(s.Name, false)
	case *ast.Shorthand:
		return p.opts.Arity.RequiresValue(s.Letter, true)
	}
	return false
}

func setValue(arg *ast.Argument, val *ast.Value) {
	switch s := arg.Shape.(type) {
	case *ast.LongFlag:
		s.Value = val
	case *ast.Shorthand:
		s.Value = val
	case *ast.CustomSetting:
		s.Value = val
	}
}
