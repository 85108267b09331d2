package driver

import (
	"path/filepath"

	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/workspace"
)

// tableFor finds the workspace root and flag table for the rc file at path.
// Virtual files resolve from the working directory. A nil table means no
// data is embedded for the resolved version.
func tableFor(detector *bazelversion.Detector, path, override string, virtual bool) (string, bazelversion.Resolution, *flags.Table) {
	dir := "."
	if !virtual {
		dir = filepath.Dir(path)
	}
	if detector == nil {
		detector = &bazelversion.Detector{}
	}
	var root string
	if found, ok, err := workspace.FindRoot(dir); err == nil && ok {
		root = found
	}
	res := detector.Resolve(dir, override)
	table, err := flags.Load(res.Version)
	if err != nil {
		return root, res, nil
	}
	return root, res, table
}
