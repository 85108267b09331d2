// Command flagsgen compiles the human-editable flag list into the compressed
// table embedded by internal/flags.
//
// With --from-bazel it first asks each listed Bazel release for its flags
// (`bazel help flags-as-proto`) and merges them into the list.
package main

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/flags"
)

func main() {
	var in, out, yamlOut, bazel, cacheDir string
	var check bool
	var fromBazel []string

	cmd := &cobra.Command{
		Use:          "flagsgen",
		Short:        "Compile flags.yaml into the embedded flag table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCollection(in)
			if err != nil {
				return err
			}
			if err := normalize(c); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if len(fromBazel) > 0 {
				for _, v := range fromBazel {
					data, err := dumpFlags(cmd.Context(), bazel, v, cacheDir)
					if err != nil {
						return err
					}
					dumped, err := decodeCollection(data)
					if err != nil {
						return fmt.Errorf("bazel %s: %w", v, err)
					}
					mergeVersion(c, dumped, v)
					fmt.Fprintf(cmd.OutOrStdout(), "bazel %s: %d flags\n", v, len(dumped))
				}
				if err := normalize(c); err != nil {
					return err
				}
				if yamlOut != "" {
					if err := writeCollection(yamlOut, c); err != nil {
						return err
					}
				}
			}
			if check {
				return checkUpToDate(c, out)
			}
			var buf bytes.Buffer
			if err := flags.Encode(&buf, c); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d flags for %d versions to %s\n", len(c.Flags), len(c.Versions), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "internal/flags/data/flags.yaml", "flag list to read")
	cmd.Flags().StringVar(&out, "out", "internal/flags/data/flags.msgpack.gz", "table to write")
	cmd.Flags().BoolVar(&check, "check", false, "fail if the table does not match the flag list")
	cmd.Flags().StringSliceVar(&fromBazel, "from-bazel", nil, "Bazel versions to dump and merge into the flag list")
	cmd.Flags().StringVar(&bazel, "bazel", "bazelisk", "bazel or bazelisk binary honouring USE_BAZEL_VERSION")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory caching raw flag dumps per version")
	cmd.Flags().StringVar(&yamlOut, "yaml-out", "", "write the merged flag list here")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readCollection(path string) (*flags.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c flags.Collection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func writeCollection(path string, c *flags.Collection) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// normalize sorts the collection and rejects flags that clash within a version.
func normalize(c *flags.Collection) error {
	if len(c.Versions) == 0 {
		return fmt.Errorf("no versions listed")
	}
	slices.SortFunc(c.Versions, flags.CompareVersions)

	seen := make(map[string]bool)
	for i := range c.Flags {
		d := &c.Flags[i]
		if d.Name == "" {
			return fmt.Errorf("flag #%d has no name", i)
		}
		if len(d.Commands) == 0 {
			return fmt.Errorf("flag %q applies to no command", d.Name)
		}
		slices.Sort(d.Commands)
		slices.SortFunc(d.Versions, flags.CompareVersions)

		versions := d.Versions
		if len(versions) == 0 {
			versions = c.Versions
		}
		for _, v := range versions {
			if !slices.Contains(c.Versions, v) {
				return fmt.Errorf("flag %q lists unknown version %q", d.Name, v)
			}
			key := d.Name + "@" + v
			if seen[key] {
				return fmt.Errorf("flag %q is defined twice for %s", d.Name, v)
			}
			seen[key] = true
		}
	}
	slices.SortStableFunc(c.Flags, func(a, b flags.Descriptor) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(strings.Join(a.Versions, ","), strings.Join(b.Versions, ","))
	})
	return nil
}

func checkUpToDate(want *flags.Collection, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	got, err := flags.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("%s is out of date; rerun flagsgen", path)
	}
	return nil
}
