package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bazelrc-lsp/internal/config"
	"bazelrc-lsp/internal/log"
)

const configFileHint = config.FileName

// globals are the persistent flags merged with the config file.
type globals struct {
	color        bool
	quiet        bool
	timings      bool
	bazelVersion string
	cfg          config.Config
	logger       log.Logger
	closeLog     func()
}

func (g *globals) close() {
	if g.closeLog != nil {
		g.closeLog()
	}
}

// loadGlobals reads the persistent flags and the config file. Flags win
// over the file, the file over the defaults.
func loadGlobals(cmd *cobra.Command) (*globals, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := readColorMode(colorFlag, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	bazelVersion, err := flags.GetString("bazel-version")
	if err != nil {
		return nil, fmt.Errorf("failed to get bazel-version flag: %w", err)
	}
	logFile, err := flags.GetString("log-file")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-file flag: %w", err)
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Find(".")
	}
	if err != nil {
		return nil, err
	}
	if len(cfg.Unknown) > 0 && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown keys %s\n", cfg.Path, strings.Join(cfg.Unknown, ", "))
	}

	g := &globals{
		color:        useColor,
		quiet:        quiet,
		timings:      timings,
		bazelVersion: firstNonEmpty(bazelVersion, cfg.BazelVersion),
		cfg:          cfg,
	}
	color.NoColor = !useColor

	level := log.DefaultLevel
	if raw := firstNonEmpty(logLevel, cfg.Log.Level); raw != "" {
		var ok bool
		if level, ok = log.ParseLevel(raw); !ok {
			return nil, fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", raw)
		}
	}
	var out io.Writer = cmd.ErrOrStderr()
	if path := firstNonEmpty(logFile, cfg.Log.File); path != "" {
		w := log.OpenFile(path, log.DefaultRotation)
		out = w
		g.closeLog = func() { _ = w.Close() }
	}
	g.logger = log.Make(out, log.WithLevel(level))
	return g, nil
}

// readColorMode decides whether output to w is colourised.
func readColorMode(value string, w io.Writer) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		f, ok := w.(*os.File)
		return ok && isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// warnOnce prints each distinct version warning a single time.
type warnOnce struct {
	w    io.Writer
	seen map[string]bool
}

func (o *warnOnce) warn(msg string) {
	if msg == "" || o.seen[msg] {
		return
	}
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	o.seen[msg] = true
	fmt.Fprintf(o.w, "warning: %s\n", msg)
}
