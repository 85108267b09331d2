package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"bazelrc-lsp/internal/workspace"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRoot(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "MODULE.bazel"))
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	root, ok, err := workspace.FindRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindRoot: %v %v", ok, err)
	}
	if want, _ := filepath.Abs(dir); root != want {
		t.Fatalf("root %q, want %q", root, want)
	}
}

func TestFindUpOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "WORKSPACE"))
	touch(t, filepath.Join(dir, "sub", "REPO.bazel"))

	path, ok, err := workspace.FindUp(filepath.Join(dir, "sub"), workspace.RootMarkers...)
	if err != nil || !ok || filepath.Base(path) != "REPO.bazel" {
		t.Fatalf("FindUp = %q %v %v", path, ok, err)
	}
}

func TestResolveImport(t *testing.T) {
	rc := filepath.Join("/repo", "tools", ".bazelrc")
	tests := []struct {
		raw, root string
		want      string
		ok        bool
	}{
		{"%workspace%/ci.bazelrc", "/repo", filepath.FromSlash("/repo/ci.bazelrc"), true},
		{"%workspace%/ci.bazelrc", "", "", false},
		{"user.bazelrc", "", filepath.FromSlash("/repo/tools/user.bazelrc"), true},
		{"../x/../y.bazelrc", "/repo", filepath.FromSlash("/repo/y.bazelrc"), true},
		{"/etc/bazel.bazelrc", "", filepath.FromSlash("/etc/bazel.bazelrc"), true},
	}
	for _, tt := range tests {
		got, ok := workspace.ResolveImport(tt.raw, rc, tt.root)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ResolveImport(%q, root=%q) = %q, %v; want %q, %v", tt.raw, tt.root, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOSProbe(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.bazelrc")
	touch(t, file)
	var p workspace.Probe = workspace.OSProbe{}
	if !p.Exists(file) || p.Exists(filepath.Join(dir, "missing")) || p.Exists(dir) {
		t.Fatalf("OSProbe results wrong")
	}
}
