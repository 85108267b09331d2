package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"bazelrc-lsp/internal/ast"
	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/check"
	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/log"
	"bazelrc-lsp/internal/observ"
	"bazelrc-lsp/internal/parser"
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/workspace"
)

// StdinName is the display name of a file read from standard input.
const StdinName = "<stdin>"

// DiagnoseOptions configure a batch check.
type DiagnoseOptions struct {
	// BazelVersion overrides version detection when non-empty.
	BazelVersion string
	// MaxDiagnostics caps diagnostics per file; zero means unlimited.
	MaxDiagnostics int
	// Jobs limits parallel workers; zero uses GOMAXPROCS.
	Jobs int
	// Probe checks import targets; nil uses the local filesystem.
	Probe    workspace.Probe
	Detector *bazelversion.Detector
	Sink     ProgressSink
	// Timings records per-file phase durations in DiagnoseResult.Timing.
	Timings bool
	Logger  log.Logger
	// Stdin is read for StdinPath; nil means os.Stdin.
	Stdin io.Reader
}

// DiagnoseResult holds the analysis of one file.
type DiagnoseResult struct {
	Path       string
	File       *source.File
	Doc        *ast.Document
	Bag        *diag.Bag
	Root       string
	Resolution bazelversion.Resolution
	Table      *flags.Table
	Timing     *observ.Report
	// Err is set when the file could not be read; the other fields are
	// then empty.
	Err error
}

// DiagnosePaths checks every rc file the paths expand to. Files are loaded
// into one FileSet up front and analysed in parallel; results keep input
// order.
func DiagnosePaths(ctx context.Context, paths []string, opts DiagnoseOptions) (*source.FileSet, []DiagnoseResult, error) {
	if len(paths) == 0 {
		paths = []string{StdinPath}
	}
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	results := make([]DiagnoseResult, len(files))
	if len(files) == 0 {
		return fileSet, results, nil
	}

	for i, path := range files {
		results[i].Path = path
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		start := time.Now()
		id, err := loadFile(fileSet, path, opts.Stdin)
		if err != nil {
			results[i].Err = err
			emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		results[i].File = fileSet.Get(id)
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusDone, Elapsed: time.Since(start)})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	probe := opts.Probe
	if probe == nil {
		probe = workspace.OSProbe{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			diagnoseFile(&results[i], probe, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fileSet, results, nil
}

func loadFile(fileSet *source.FileSet, path string, stdin io.Reader) (source.FileID, error) {
	if path != StdinPath {
		id, err := fileSet.Load(path)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return id, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return 0, fmt.Errorf("failed to read stdin: %w", err)
	}
	content, fileFlags := source.Normalize(data)
	return fileSet.Add(StdinName, content, fileFlags|source.FileVirtual), nil
}

func diagnoseFile(r *DiagnoseResult, probe workspace.Probe, opts DiagnoseOptions) {
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	phase := func(name string, fn func()) {
		if timer == nil {
			fn()
			return
		}
		timer.Measure(name, fn)
	}
	virtual := r.Path == StdinPath
	if virtual {
		probe = nil
	}

	emit(opts.Sink, Event{File: r.Path, Stage: StageParse, Status: StatusWorking})
	start := time.Now()
	phase("resolve", func() {
		r.Root, r.Resolution, r.Table = tableFor(opts.Detector, r.Path, opts.BazelVersion, virtual)
	})
	phase("parse", func() {
		var arity parser.Arity
		if r.Table != nil {
			arity = r.Table
		}
		r.Doc = parser.Parse(r.File, parser.Options{Arity: arity})
	})
	emit(opts.Sink, Event{File: r.Path, Stage: StageCheck, Status: StatusWorking})
	phase("check", func() {
		diags := check.Run(r.Doc, r.Table, probe, check.Options{
			Root:    r.Root,
			Version: r.Resolution.Version,
			Max:     opts.MaxDiagnostics,
		})
		r.Bag = diag.NewBag(opts.MaxDiagnostics)
		for _, d := range diags {
			r.Bag.Add(d)
		}
	})
	if timer != nil {
		report := timer.Report()
		r.Timing = &report
	}

	status := StatusDone
	if r.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Sink, Event{File: r.Path, Stage: StageCheck, Status: status, Elapsed: time.Since(start)})
	opts.Logger.Debug("checked file",
		"path", r.Path,
		"version", r.Resolution.Version,
		"diagnostics", r.Bag.Len(),
	)
}

// HasErrors reports whether any result failed to load or has an error
// diagnostic.
func HasErrors(results []DiagnoseResult) bool {
	for i := range results {
		if results[i].Err != nil || (results[i].Bag != nil && results[i].Bag.HasErrors()) {
			return true
		}
	}
	return false
}
