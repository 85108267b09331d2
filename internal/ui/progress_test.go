package ui

import (
	"bytes"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"bazelrc-lsp/internal/driver"
)

func TestProgressModel(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("check", []string{"a.bazelrc", "b.bazelrc"}, events).(*progressModel)

	model.Update(eventMsg{File: "a.bazelrc", Stage: driver.StageLoad, Status: driver.StatusDone})
	if got := model.items[0].status; got != "loaded" {
		t.Fatalf("status after load %q", got)
	}
	if model.items[0].final {
		t.Fatalf("load marked the file as finished")
	}
	model.Update(eventMsg{File: "a.bazelrc", Stage: driver.StageCheck, Status: driver.StatusWorking})
	model.Update(eventMsg{File: "b.bazelrc", Stage: driver.StageCheck, Status: driver.StatusError})
	if got := model.percent(); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("percent %v", got)
	}

	view := model.View()
	for _, want := range []string{"check", "checking a.bazelrc", "error b.bazelrc"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := model.Update(doneMsg{})
	if !model.done || cmd == nil {
		t.Fatalf("done message did not quit")
	}
	if !strings.HasPrefix(model.View(), "done: check") {
		t.Errorf("final view %q", model.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"tools/ci.bazelrc", 10, "tools/c..."},
		{"abcdef", 3, "abc"},
		{"日本語ファイル", 8, "日本..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRunDrainsEvents(t *testing.T) {
	var out bytes.Buffer
	files := []string{"a.bazelrc"}
	err := Run(&out, "format", files, func(sink driver.ProgressSink) {
		for range 300 {
			sink.OnEvent(driver.Event{File: "a.bazelrc", Stage: driver.StageFormat, Status: driver.StatusWorking})
		}
		sink.OnEvent(driver.Event{File: "a.bazelrc", Stage: driver.StageFormat, Status: driver.StatusDone})
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "a.bazelrc") {
		t.Errorf("no file in output %q", out.String())
	}
}

var _ tea.Model = (*progressModel)(nil)
