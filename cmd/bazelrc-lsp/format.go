package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/driver"
)

func newFormatCmd() *cobra.Command {
	fmtCmd := &cobra.Command{
		Use:   "format [flags] [path|-]...",
		Short: "Format bazelrc files",
		Long: `Format bazelrc files. Without paths, or with "-", standard input is formatted to standard output.
Directories are searched for .bazelrc, bazelrc and *.bazelrc files.`,
		RunE: runFmt,
	}
	fmtCmd.Flags().Bool("check", false, "only report files that are not formatted; exit 1 if any")
	fmtCmd.Flags().Bool("in-place", false, "rewrite files instead of printing them")
	fmtCmd.Flags().String("line-flow", "", "how flags are distributed over lines ("+lineFlowHelp()+")")
	fmtCmd.Flags().Bool("normalize", false, "rewrite \"--flag value\" as \"--flag=value\"")
	fmtCmd.Flags().String("output", "text", "output format (text|json)")
	fmtCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	return fmtCmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	defer g.close()

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	inPlace, err := cmd.Flags().GetBool("in-place")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	formatOpts, err := resolveFormatOptions(cmd, g)
	if err != nil {
		return err
	}
	if check && inPlace {
		return fmt.Errorf("format: --check cannot be used with --in-place")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("format: unsupported output format %q", outputFormat)
	}

	stopProfile, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfile()

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Format:       formatOpts,
		Check:        check,
		InPlace:      inPlace,
		BazelVersion: g.bazelVersion,
		Jobs:         jobs,
		Stdin:        cmd.InOrStdin(),
	})
	if err != nil {
		return err
	}

	var hasErrors, hasChanges bool
	switch {
	case outputFormat == "json":
		if err := renderFmtJSON(cmd.OutOrStdout(), results, check); err != nil {
			return err
		}
		hasErrors, hasChanges = fmtStatus(results)
	case check || inPlace:
		hasErrors, hasChanges = renderFmtText(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, check, g.quiet)
	default:
		hasErrors = renderFmtStdout(cmd.OutOrStdout(), cmd.ErrOrStderr(), results)
	}

	if hasErrors {
		return exitError{code: 2}
	}
	if check && hasChanges {
		return exitError{code: 1}
	}
	return nil
}

func fmtStatus(results []driver.FormatResult) (hasErrors, hasChanges bool) {
	for _, res := range results {
		hasErrors = hasErrors || res.Err != nil
		hasChanges = hasChanges || res.Changed
	}
	return hasErrors, hasChanges
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "format: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "format: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
	return hasErrors, hasChanges
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
