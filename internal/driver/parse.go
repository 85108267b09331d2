package driver

import (
	"io"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
)

// ParseOptions configure ParsePath.
type ParseOptions struct {
	BazelVersion string
	Detector     *bazelversion.Detector
	// Stdin is read for StdinPath; nil means os.Stdin.
	Stdin io.Reader
}

// ParseResult is a parsed file together with the version its flag arity
// came from.
type ParseResult struct {
	File       *source.File
	Doc        *ast.Document
	Resolution bazelversion.Resolution
}

// ParsePath reads and parses a single rc file, or standard input for
// StdinPath.
func ParsePath(path string, opts ParseOptions) (*ParseResult, error) {
	fileSet := source.NewFileSet()
	id, err := loadFile(fileSet, path, opts.Stdin)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(id)
	_, res, table := tableFor(opts.Detector, path, opts.BazelVersion, path == StdinPath)
	var arity parser.Arity
	if table != nil {
		arity = table
	}
	return &ParseResult{
		File:       file,
		Doc:        parser.Parse(file, parser.Options{Arity: arity}),
		Resolution: res,
	}, nil
}
