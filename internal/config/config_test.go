package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bazelrc-lsp/internal/config"
	"bazelrc-lsp/internal/format"
)

func write(t *testing.T, path, text string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, config.FileName), `
bazel_version = "7.4.0"
[format]
line_flow = "singleLine"
normalize_values = true
[diagnostics]
max = 20
[log]
level = "debug"
extra = 1
`)
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Find(sub)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if cfg.BazelVersion != "7.4.0" || cfg.Diagnostics.Max != 20 || cfg.Log.Level != "debug" {
		t.Fatalf("config %+v", cfg)
	}
	opts := cfg.FormatOptions()
	if opts.LineFlow != format.SingleLine || !opts.NormalizeValues {
		t.Fatalf("format options %+v", opts)
	}
	if len(cfg.Unknown) != 1 || cfg.Unknown[0] != "log.extra" {
		t.Fatalf("unknown keys %v", cfg.Unknown)
	}
}

func TestFindDefaults(t *testing.T) {
	cfg, err := config.Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if cfg.Path != "" || cfg.FormatOptions().LineFlow != format.Keep {
		t.Fatalf("defaults %+v", cfg)
	}
}

func TestInvalid(t *testing.T) {
	tests := []string{
		"[format]\nline_flow = \"zigzag\"\n",
		"[diagnostics]\nmax = -1\n",
		"[log]\nlevel = \"loud\"\n",
	}
	for _, text := range tests {
		path := filepath.Join(t.TempDir(), config.FileName)
		write(t, path, text)
		if _, err := config.Load(path); !errors.Is(err, config.ErrInvalid) {
			t.Errorf("Load(%q) = %v, want ErrInvalid", text, err)
		}
	}
	path := filepath.Join(t.TempDir(), config.FileName)
	write(t, path, "not toml = = =")
	if _, err := config.Load(path); err == nil || errors.Is(err, config.ErrInvalid) {
		t.Errorf("syntax error reported as %v", err)
	}
}
