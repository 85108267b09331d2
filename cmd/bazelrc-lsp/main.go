package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bazelrc-lsp/internal/version"
)

// exitError ends the process with code after the command already reported
// the problem.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bazelrc-lsp",
		Short:         "Language server and tooling for .bazelrc files",
		Long:          `bazelrc-lsp checks, formats and explains Bazel .bazelrc files, on the command line or inside an editor`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("config", "", "path to a "+configFileHint+" file (default: search upwards)")
	rootCmd.PersistentFlags().String("bazel-version", "", "use the flags of this Bazel version instead of detecting it")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("log-level", "", "minimum log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("profile", "", "enable a runtime profiler (cpu|mem|allocs|heap|block|mutex|goroutine|trace)")
	rootCmd.PersistentFlags().String("profile-dir", "", "directory for profiler output (default: working directory)")

	rootCmd.AddCommand(
		newLSPCmd(),
		newBazelVersionsCmd(),
		newFormatCmd(),
		newCheckCmd(),
		newParseCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "bazelrc-lsp: %v\n", err)
	os.Exit(2)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
