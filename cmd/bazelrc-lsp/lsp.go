package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/format"
	"bazelrc-lsp/internal/lsp"
	"bazelrc-lsp/internal/version"
)

func newLSPCmd() *cobra.Command {
	lspCmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the bazelrc language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	lspCmd.Flags().String("line-flow", "", "line flow used by formatting requests ("+lineFlowHelp()+")")
	lspCmd.Flags().Bool("normalize", false, "rewrite \"--flag value\" as \"--flag=value\" when formatting")
	lspCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics per document (0=unlimited)")
	return lspCmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	defer g.close()

	stopProfile, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfile()

	formatOpts, err := resolveFormatOptions(cmd, g)
	if err != nil {
		return err
	}
	maxDiagnostics := g.cfg.Diagnostics.Max
	if cmd.Flags().Changed("max-diagnostics") {
		if maxDiagnostics, err = cmd.Flags().GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}

	g.logger.Info("starting language server",
		"version", version.Get().Version,
		"bazel_version", g.bazelVersion,
		"line_flow", formatOpts.LineFlow.String(),
	)
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Logger: g.logger,
		Settings: lsp.Settings{
			Format:         formatOpts,
			BazelVersion:   g.bazelVersion,
			MaxDiagnostics: maxDiagnostics,
		},
		Version: version.Get().Version,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return exitError{code: 1}
		}
		return err
	}
	return nil
}

// resolveFormatOptions merges --line-flow and --normalize over the config
// file.
func resolveFormatOptions(cmd *cobra.Command, g *globals) (format.Options, error) {
	opts := g.cfg.FormatOptions()
	if cmd.Flags().Changed("line-flow") {
		raw, err := cmd.Flags().GetString("line-flow")
		if err != nil {
			return opts, fmt.Errorf("failed to get line-flow flag: %w", err)
		}
		flow, err := format.ParseLineFlow(raw)
		if err != nil {
			return opts, fmt.Errorf("--line-flow: %w", err)
		}
		opts.LineFlow = flow
	}
	if cmd.Flags().Changed("normalize") {
		normalize, err := cmd.Flags().GetBool("normalize")
		if err != nil {
			return opts, fmt.Errorf("failed to get normalize flag: %w", err)
		}
		opts.NormalizeValues = normalize
	}
	return opts, nil
}

func lineFlowHelp() string {
	return strings.Join(format.LineFlowNames(), "|")
}
