// Package bazelversion figures out which Bazel release a workspace uses,
// the way Bazelisk does, and maps it onto the embedded flag tables.
package bazelversion

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bazelrc-lsp/internal/flags"
	"bazelrc-lsp/internal/workspace"
)

// Source tells where a version hint came from.
type Source uint8

const (
	SourceNone Source = iota
	SourceOverride
	SourceEnv
	SourceBazeliskrc
	SourceBazelversion
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceEnv:
		return "USE_BAZEL_VERSION"
	case SourceBazeliskrc:
		return ".bazeliskrc"
	case SourceBazelversion:
		return ".bazelversion"
	default:
		return "default"
	}
}

const envVar = "USE_BAZEL_VERSION"

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Hint is the requested version, empty when nothing was found.
	Hint   string
	Source Source
	// Version is an embedded version; always set when any data is embedded.
	Version string
	// Warning explains a fallback to a version other than Hint.
	Warning string
}

// Detector looks up version hints. The zero value uses the process
// environment and the local filesystem.
type Detector struct {
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
	// Available overrides the embedded version list.
	Available []string
}

func (d *Detector) getenv(key string) string {
	if d.Getenv != nil {
		return d.Getenv(key)
	}
	return os.Getenv(key)
}

func (d *Detector) readFile(path string) ([]byte, error) {
	if d.ReadFile != nil {
		return d.ReadFile(path)
	}
	return os.ReadFile(path)
}

func (d *Detector) available() []string {
	if d.Available != nil {
		return d.Available
	}
	return flags.Versions()
}

// Detect returns the version hint for the workspace containing dir:
// USE_BAZEL_VERSION, then .bazeliskrc, then .bazelversion in the root.
func (d *Detector) Detect(dir string) (string, Source) {
	if v := strings.TrimSpace(d.getenv(envVar)); v != "" {
		return v, SourceEnv
	}
	root, ok, err := workspace.FindRoot(dir)
	if err != nil || !ok {
		return "", SourceNone
	}
	if data, err := d.readFile(filepath.Join(root, ".bazeliskrc")); err == nil {
		if v := bazeliskrcVersion(data); v != "" {
			return v, SourceBazeliskrc
		}
	}
	if data, err := d.readFile(filepath.Join(root, ".bazelversion")); err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v, SourceBazelversion
		}
	}
	return "", SourceNone
}

func bazeliskrcVersion(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if v, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), envVar+"="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Resolve picks the flag table version for dir. A non-empty override wins
// over detection.
func (d *Detector) Resolve(dir, override string) Resolution {
	hint, src := strings.TrimSpace(override), SourceOverride
	if hint == "" {
		hint, src = d.Detect(dir)
	}
	available := d.available()
	if src == SourceNone {
		v := flags.ClosestIn(available, "latest")
		return Resolution{
			Source:  SourceNone,
			Version: v,
			Warning: fmt.Sprintf("Using flags from Bazel %s because auto-detecting the Bazel version failed", v),
		}
	}
	res := Resolution{Hint: hint, Source: src, Version: flags.ClosestIn(available, hint)}
	if res.Version != hint {
		res.Warning = fmt.Sprintf("Using flags from Bazel %s because flags for version %s are not available", res.Version, hint)
	}
	return res
}

// Resolve uses a zero Detector.
func Resolve(dir, override string) Resolution {
	var d Detector
	return d.Resolve(dir, override)
}
