package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RootMarkers are the files that make a directory a Bazel workspace root.
var RootMarkers = []string{"MODULE.bazel", "REPO.bazel", "WORKSPACE.bazel", "WORKSPACE"}

// FindUp walks up from startDir and returns the first existing path named
// by one of names, checked in order within each directory.
func FindUp(startDir string, names ...string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the nearest ancestor of startDir holding a root marker.
func FindRoot(startDir string) (root string, ok bool, err error) {
	marker, ok, err := FindUp(startDir, RootMarkers...)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(marker), true, nil
}
