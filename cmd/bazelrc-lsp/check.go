package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/diagfmt"
	"bazelrc-lsp/internal/driver"
	"bazelrc-lsp/internal/source"
	"bazelrc-lsp/internal/ui"
)

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] [path|-]...",
		Short: "Report problems in bazelrc files",
		Long: `Check bazelrc files against the flags of the detected Bazel version.
Without paths, or with "-", standard input is checked. Exits with status 1 when an error is found.`,
		RunE: runCheck,
	}
	checkCmd.Flags().String("output", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().String("ui", "auto", "show a progress view on stderr (auto|on|off)")
	checkCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0=config or unlimited)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("fix", false, "apply the suggested fixes and rewrite the files")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", true, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show the lines each fix would produce")
	checkCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	return checkCmd
}

type checkOptions struct {
	output    string
	uiMode    uiMode
	maxDiags  int
	jobs      int
	fix       bool
	withNotes bool
	suggest   bool
	preview   bool
	pathMode  diagfmt.PathMode
}

func readCheckOptions(cmd *cobra.Command, g *globals) (checkOptions, error) {
	var (
		opts checkOptions
		err  error
	)
	f := cmd.Flags()
	if opts.output, err = f.GetString("output"); err != nil {
		return opts, fmt.Errorf("failed to get output flag: %w", err)
	}
	switch opts.output {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown output format: %s", opts.output)
	}
	rawUI, err := f.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.uiMode, err = readUIMode(rawUI); err != nil {
		return opts, err
	}
	opts.maxDiags = g.cfg.Diagnostics.Max
	if f.Changed("max-diagnostics") {
		if opts.maxDiags, err = f.GetInt("max-diagnostics"); err != nil {
			return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if opts.maxDiags < 0 {
			return opts, fmt.Errorf("--max-diagnostics must not be negative")
		}
	}
	if opts.jobs, err = f.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.fix, err = f.GetBool("fix"); err != nil {
		return opts, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if opts.withNotes, err = f.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.suggest, err = f.GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.preview, err = f.GetBool("preview"); err != nil {
		return opts, fmt.Errorf("failed to get preview flag: %w", err)
	}
	rawPathMode, err := f.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if opts.pathMode, err = diagfmt.ParsePathMode(rawPathMode); err != nil {
		return opts, err
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	defer g.close()

	opts, err := readCheckOptions(cmd, g)
	if err != nil {
		return err
	}

	stopProfile, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfile()

	if len(args) == 0 {
		args = []string{driver.StdinPath}
	}
	files, err := driver.CollectFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	diagOpts := driver.DiagnoseOptions{
		BazelVersion:   g.bazelVersion,
		MaxDiagnostics: opts.maxDiags,
		Jobs:           opts.jobs,
		Timings:        g.timings,
		Logger:         g.logger,
		Stdin:          cmd.InOrStdin(),
	}

	fileSet, results, err := diagnose(cmd, files, diagOpts, opts.uiMode)
	if err != nil {
		return err
	}

	if opts.fix {
		fixed, err := applyFixes(cmd, results, g.quiet)
		if err != nil || fixed {
			return err
		}
		// report what the fixes left behind
		if fileSet, results, err = driver.DiagnosePaths(cmd.Context(), files, diagOpts); err != nil {
			return err
		}
	}

	errOut := cmd.ErrOrStderr()
	warnings := warnOnce{w: errOut}
	bag := diag.NewBag(0)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errOut, "check: %v\n", r.Err)
			continue
		}
		if !g.quiet {
			warnings.warn(r.Resolution.Warning)
		}
		bag.Merge(r.Bag)
	}

	if err := renderDiagnostics(cmd.OutOrStdout(), fileSet, results, bag, opts, g.color); err != nil {
		return err
	}
	if g.timings {
		printCheckTimings(errOut, results)
	}
	if driver.HasErrors(results) {
		return exitError{code: 1}
	}
	return nil
}

// diagnose runs the batch check, behind the progress view when enabled.
func diagnose(cmd *cobra.Command, files []string, opts driver.DiagnoseOptions, mode uiMode) (*source.FileSet, []driver.DiagnoseResult, error) {
	if !shouldUseTUI(mode, len(files)) {
		return driver.DiagnosePaths(cmd.Context(), files, opts)
	}
	var (
		fileSet *source.FileSet
		results []driver.DiagnoseResult
		runErr  error
	)
	uiErr := ui.Run(cmd.ErrOrStderr(), "check", files, func(sink driver.ProgressSink) {
		opts.Sink = sink
		fileSet, results, runErr = driver.DiagnosePaths(cmd.Context(), files, opts)
	})
	if runErr != nil {
		return nil, nil, runErr
	}
	return fileSet, results, uiErr
}

// applyFixes rewrites files with their fixes. Fixed standard input is
// printed instead; fixed reports whether that happened.
func applyFixes(cmd *cobra.Command, results []driver.DiagnoseResult, quiet bool) (fixed bool, err error) {
	var failed bool
	for _, oc := range driver.ApplyFixes(results, true) {
		if oc.Err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "check: fix %s: %v\n", oc.Path, oc.Err)
			continue
		}
		if oc.Path == driver.StdinPath {
			_, _ = cmd.OutOrStdout().Write(oc.Result.Content)
			fixed = true
		}
		if quiet || len(oc.Result.Applied) == 0 {
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: applied %d fix(es)", oc.Path, len(oc.Result.Applied))
		if n := len(oc.Result.Skipped); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), ", skipped %d", n)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if failed {
		return fixed, exitError{code: 2}
	}
	return fixed, nil
}

func renderDiagnostics(out io.Writer, fileSet *source.FileSet, results []driver.DiagnoseResult, bag *diag.Bag, opts checkOptions, useColor bool) error {
	showFixes := opts.suggest || opts.preview
	switch opts.output {
	case "pretty":
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:       useColor,
			Context:     1,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: opts.preview,
		})
	case "json":
		return diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  opts.preview,
		})
	case "short":
		var parts []string
		for _, r := range results {
			if r.Err != nil || r.Bag.Len() == 0 {
				continue
			}
			parts = append(parts, diag.FormatShortDiagnostics(r.Bag.Items(), r.File, fileSet.BaseDir(), opts.withNotes))
		}
		if len(parts) > 0 {
			fmt.Fprintln(out, strings.Join(parts, "\n"))
		}
	}
	return nil
}
