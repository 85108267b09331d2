package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceVar is replaced by the workspace root in import paths.
const WorkspaceVar = "%workspace%"

// Probe answers whether an import target exists. Probes are best-effort
// and must not block for long.
type Probe interface {
	Exists(path string) bool
}

// OSProbe checks the local filesystem.
type OSProbe struct{}

func (OSProbe) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(path string) bool

func (f ProbeFunc) Exists(path string) bool { return f(path) }

// ResolveImport turns the path of an import line into a filesystem path.
// %workspace% expands to root; other relative paths are taken relative to
// the directory of the importing file. ok is false when the path uses
// %workspace% but no root is known, or when rcPath is needed but empty.
func ResolveImport(raw, rcPath, root string) (path string, ok bool) {
	p := raw
	if strings.Contains(p, WorkspaceVar) {
		if root == "" {
			return "", false
		}
		p = strings.ReplaceAll(p, WorkspaceVar, root)
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) {
		if rcPath == "" {
			return "", false
		}
		p = filepath.Join(filepath.Dir(rcPath), p)
	}
	return filepath.Clean(p), true
}
