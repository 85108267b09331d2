// Package config reads the optional .bazelrc-lsp.toml project file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"bazelrc-lsp/internal/format"
	"bazelrc-lsp/internal/log"
	"bazelrc-lsp/internal/workspace"
)

// FileName is the name looked up when walking up from a directory.
const FileName = ".bazelrc-lsp.toml"

// ErrInvalid wraps every semantic problem with a config file.
var ErrInvalid = errors.New("invalid config")

// Config is the decoded file. Zero fields mean "not set".
type Config struct {
	BazelVersion string      `toml:"bazel_version"`
	Format       Format      `toml:"format"`
	Diagnostics  Diagnostics `toml:"diagnostics"`
	Log          Log         `toml:"log"`

	// Path is the file the config came from, empty for defaults.
	Path string `toml:"-"`
	// Unknown lists keys the file set that nothing reads.
	Unknown []string `toml:"-"`
}

type Format struct {
	LineFlow        string `toml:"line_flow"`
	NormalizeValues bool   `toml:"normalize_values"`
}

type Diagnostics struct {
	Max int `toml:"max"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Format: Format{LineFlow: format.Keep.String()},
		Log:    Log{Level: log.DefaultLevel.String()},
	}
}

// Load decodes path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for FileName. Without one it returns
// the defaults and no error.
func Find(startDir string) (Config, error) {
	path, ok, err := workspace.FindUp(startDir, FileName)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	c.Format.LineFlow = strings.TrimSpace(c.Format.LineFlow)
	if c.Format.LineFlow == "" {
		c.Format.LineFlow = format.Keep.String()
	}
	if _, err := format.ParseLineFlow(c.Format.LineFlow); err != nil {
		return fmt.Errorf("%w: format.line_flow: %w", ErrInvalid, err)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max must not be negative", ErrInvalid)
	}
	if c.Log.Level != "" {
		if _, ok := log.ParseLevel(c.Log.Level); !ok {
			return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
		}
	}
	return nil
}

// FormatOptions converts the [format] table.
func (c Config) FormatOptions() format.Options {
	flow, _ := format.ParseLineFlow(c.Format.LineFlow)
	return format.Options{LineFlow: flow, NormalizeValues: c.Format.NormalizeValues}
}
