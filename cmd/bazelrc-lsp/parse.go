package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/diagfmt"
	"bazelrc-lsp/internal/driver"
)

func newParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse [flags] [path|-]",
		Short: "Print the syntax tree of a bazelrc file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().String("output", "pretty", "output format (pretty|json|yaml)")
	return parseCmd
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	defer g.close()

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	path := driver.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	res, err := driver.ParsePath(path, driver.ParseOptions{
		BazelVersion: g.bazelVersion,
		Stdin:        cmd.InOrStdin(),
	})
	if err != nil {
		return err
	}
	if !g.quiet && res.Resolution.Warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", res.Resolution.Warning)
	}

	display := res.File.Path
	if wd, err := os.Getwd(); err == nil {
		display = res.File.DisplayPath(wd)
	}
	out := cmd.OutOrStdout()
	switch output {
	case "pretty":
		return diagfmt.FormatASTPretty(out, res.Doc, display)
	case "json":
		return diagfmt.FormatASTJSON(out, res.Doc, display)
	case "yaml":
		return diagfmt.FormatASTYAML(out, res.Doc, display)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
