package driver

import (
	"errors"
	"fmt"
	"os"

	"bazelrc-lsp/internal/fix"
)

// FixOutcome is the result of applying fixes to one checked file.
type FixOutcome struct {
	Path   string
	Result *fix.Result
	// Written is set when the fixed content was saved to Path.
	Written bool
	Err     error
}

// ApplyFixes applies the fixes of each result's diagnostics. With write set
// changed files on disk are rewritten; standard input is never written.
// Files without applicable fixes yield an outcome with a nil Err.
func ApplyFixes(results []DiagnoseResult, write bool) []FixOutcome {
	out := make([]FixOutcome, 0, len(results))
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.File == nil {
			continue
		}
		oc := FixOutcome{Path: r.Path}
		res, err := fix.Apply(r.File, r.Bag.Items())
		oc.Result = res
		switch {
		case errors.Is(err, fix.ErrNoFixes):
		case err != nil:
			oc.Err = err
		case write && r.Path != StdinPath:
			mode := os.FileMode(0o644)
			if st, statErr := os.Stat(r.Path); statErr == nil {
				mode = st.Mode().Perm()
			}
			if err := os.WriteFile(r.Path, res.Content, mode); err != nil {
				oc.Err = fmt.Errorf("failed to write %s: %w", r.Path, err)
			} else {
				oc.Written = true
			}
		}
		out = append(out, oc)
	}
	return out
}
