// Package log wraps log/slog with the few knobs the commands expose.
//
// The zero Logger discards everything, so packages can hold one without
// checking whether logging was configured.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the minimum severity a Logger writes.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = LevelInfo

// ParseLevel reads "debug", "info", "warn" or "error" in any case. Anything
// else yields DefaultLevel and false.
func ParseLevel(s string) (Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLevel, false
	}
	return Level(l), true
}

func (l Level) String() string {
	return strings.ToLower(slog.Level(l).String())
}

// Format selects the record encoding.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat reads "text" or "json"; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

type config struct {
	output io.Writer
	level  Level
	format Format
}

// Option adjusts a Logger under construction.
type Option func(*config)

// WithLevel sets the minimum level.
func WithLevel(l Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the record encoding.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithWriter replaces the output writer.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// Logger is a value type; copies share the underlying handler.
type Logger struct {
	*slog.Logger
	level Level
}

// Make builds a Logger writing to w.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := config{output: w, level: DefaultLevel}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.output == nil {
		cfg.output = io.Discard
	}
	hopts := &slog.HandlerOptions{Level: slog.Level(cfg.level)}
	var h slog.Handler
	if cfg.format == FormatJSON {
		h = slog.NewJSONHandler(cfg.output, hopts)
	} else {
		h = slog.NewTextHandler(cfg.output, hopts)
	}
	return Logger{Logger: slog.New(h), level: cfg.level}
}

// Discard returns a Logger that writes nothing.
func Discard() Logger {
	return Logger{}
}

// With returns a Logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return Logger{Logger: l.Logger.With(args...), level: l.level}
}

// Level returns the configured minimum level.
func (l Logger) Level() Level {
	return l.level
}

func (l Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l Logger) log(level Level, msg string, args ...any) {
	if l.Logger == nil {
		return
	}
	l.Logger.Log(context.Background(), slog.Level(level), msg, args...)
}

// Rotation limits a log file written by OpenFile.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultRotation keeps a handful of small files.
var DefaultRotation = Rotation{MaxSizeMB: 16, MaxBackups: 3, MaxAgeDays: 14}

// OpenFile returns a size-rotated writer appending to path. The file is
// created lazily on the first write.
func OpenFile(path string, r Rotation) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    r.MaxSizeMB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
	}
}
