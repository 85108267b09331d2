package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/flags"
)

func newBazelVersionsCmd() *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:   "bazel-versions",
		Short: "List the Bazel versions with embedded flag data",
		Args:  cobra.NoArgs,
		RunE:  runBazelVersions,
	}
	versionsCmd.Flags().Bool("json", false, "print the list as JSON")
	return versionsCmd
}

func runBazelVersions(cmd *cobra.Command, _ []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	defer g.close()

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	res := bazelversion.Resolve(".", g.bazelVersion)
	if asJSON {
		return renderVersionsJSON(cmd.OutOrStdout(), flags.Versions(), res)
	}
	renderVersionsText(cmd.OutOrStdout(), flags.Versions(), res, g.quiet)
	return nil
}

type versionsPayload struct {
	Versions []string `json:"versions"`
	// Selected is the version used for the working directory.
	Selected string `json:"selected"`
	Source   string `json:"source"`
}

func renderVersionsJSON(out io.Writer, versions []string, res bazelversion.Resolution) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionsPayload{Versions: versions, Selected: res.Version, Source: res.Source.String()})
}

func renderVersionsText(out io.Writer, versions []string, res bazelversion.Resolution, quiet bool) {
	for _, v := range versions {
		if !quiet && v == res.Version {
			fmt.Fprintf(out, "%s (selected via %s)\n", v, res.Source)
			continue
		}
		fmt.Fprintln(out, v)
	}
}
