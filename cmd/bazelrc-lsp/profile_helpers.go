package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/prof"
)

// setupProfiling starts the profiler selected by --profile. It returns a
// cleanup function that is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	mode, err := root.PersistentFlags().GetString("profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get profile flag: %w", err)
	}
	dir, err := root.PersistentFlags().GetString("profile-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get profile-dir flag: %w", err)
	}
	stop, err := prof.Start(mode, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return stop, nil
}
