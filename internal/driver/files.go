package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// StdinPath stands for standard input in a path list.
const StdinPath = "-"

// IsRCFile reports whether name looks like a bazelrc file: .bazelrc,
// bazelrc, or anything ending in .bazelrc.
func IsRCFile(name string) bool {
	base := filepath.Base(name)
	return base == "bazelrc" || strings.HasSuffix(base, ".bazelrc")
}

// skipDir lists directories never descended into.
func skipDir(name string) bool {
	if name == ".git" || name == "node_modules" {
		return true
	}
	return strings.HasPrefix(name, "bazel-")
}

// CollectFiles expands paths into a deduplicated list of rc files in
// argument order. Directories are walked for names accepted by IsRCFile and
// contribute their matches sorted; files named explicitly are taken as they
// are. StdinPath is passed through in place.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p == StdinPath {
			add(p)
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !st.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsRCFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
