package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/format"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
)

var (
	// ErrParseErrors is returned for files with lines that do not tokenize.
	ErrParseErrors = errors.New("file has parse errors")
	// ErrRoundTrip is returned when formatted output would not parse back.
	ErrRoundTrip = errors.New("formatter round-trip failed")
)

// FormatOptions configure bulk formatting.
type FormatOptions struct {
	Format format.Options
	// Check reports changes without writing anything.
	Check bool
	// InPlace rewrites changed files on disk.
	InPlace bool
	// BazelVersion overrides version detection when non-empty.
	BazelVersion string
	Detector     *bazelversion.Detector
	// Jobs limits parallel workers; zero uses GOMAXPROCS.
	Jobs int
	// Stdin is read for StdinPath; nil means os.Stdin.
	Stdin io.Reader
	Sink  ProgressSink
}

// FormatResult describes the outcome of formatting a single path.
type FormatResult struct {
	Path      string
	Changed   bool
	Formatted []byte
	Err       error
}

// FormatPaths formats every rc file the paths expand to and returns one
// result per file in input order. Per-file failures are reported in the
// result; the returned error is reserved for setup failures.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if len(paths) == 0 {
		paths = []string{StdinPath}
	}
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if opts.Check && opts.InPlace {
		return nil, fmt.Errorf("format: --check cannot be combined with --in-place")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FormatResult, len(files))
	for _, path := range files {
		emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: StatusWorking})
			res := formatSingleFile(path, opts)
			results[i] = res
			status := StatusDone
			if res.Err != nil {
				status = StatusError
			}
			emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: status, Err: res.Err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatSingleFile(path string, opts FormatOptions) FormatResult {
	res := FormatResult{Path: path}
	virtual := path == StdinPath
	var (
		data []byte
		err  error
		mode os.FileMode = 0o644
	)
	if virtual {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		var st os.FileInfo
		if st, err = os.Stat(path); err == nil {
			mode = st.Mode().Perm()
			// #nosec G304 -- path comes from the command line
			data, err = os.ReadFile(path)
		}
	}
	if err != nil {
		res.Err = fmt.Errorf("failed to read: %w", err)
		return res
	}

	_, _, table := tableFor(opts.Detector, path, opts.BazelVersion, virtual)
	var arity parser.Arity
	if table != nil {
		arity = table
	}
	formatted, err := FormatSource(path, data, opts.Format, arity)
	if err != nil {
		res.Err = err
		return res
	}
	res.Formatted = formatted
	res.Changed = !bytes.Equal(data, formatted)

	if opts.InPlace && res.Changed && !virtual {
		if err := os.WriteFile(path, formatted, mode); err != nil {
			res.Err = fmt.Errorf("failed to write: %w", err)
		}
	}
	return res
}

// FormatSource formats data. Files with parse errors are refused, and the
// output is verified to parse back before it is returned.
func FormatSource(name string, data []byte, opts format.Options, arity parser.Arity) ([]byte, error) {
	content, fileFlags := source.Normalize(data)
	file := source.NewFile(name, content, fileFlags|source.FileVirtual)
	doc := parser.Parse(file, parser.Options{Arity: arity})
	for _, l := range doc.Lines {
		if inv, ok := l.(*ast.InvalidLine); ok {
			start, _ := file.Resolve(inv.At)
			return nil, fmt.Errorf("%w: line %d: %s", ErrParseErrors, start.Line, inv.Reason)
		}
	}
	if ok, msg := format.CheckRoundTrip(doc, opts, arity); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundTrip, msg)
	}
	return []byte(format.Document(doc, opts)), nil
}
