package log_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"bazelrc-lsp/internal/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
		ok   bool
	}{
		{"debug", log.LevelDebug, true},
		{"INFO", log.LevelInfo, true},
		{" warn ", log.LevelWarn, true},
		{"error", log.LevelError, true},
		{"loud", log.DefaultLevel, false},
	}
	for _, tt := range tests {
		got, ok := log.ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, ok)
		}
	}
	if log.LevelWarn.String() != "warn" {
		t.Errorf("String() = %q", log.LevelWarn.String())
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := log.Make(&buf, log.WithLevel(log.LevelWarn))
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") || !strings.Contains(out, "k=1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestJSONWith(t *testing.T) {
	var buf bytes.Buffer
	l := log.Make(&buf, log.WithFormat(log.ParseFormat("json"))).With()
	l.Info("hello", "uri", "file:///a")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %v: %q", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["uri"] != "file:///a" {
		t.Fatalf("record %v", rec)
	}
}

func TestDiscard(t *testing.T) {
	l := log.Discard()
	l.Error("nothing happens")
	if l.With().Logger != nil {
		t.Fatalf("With on zero logger must stay silent")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsp.log")
	w := log.OpenFile(path, log.DefaultRotation)
	l := log.Make(w)
	l.Info("written")
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
