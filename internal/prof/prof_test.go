package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartCPU(t *testing.T) {
	dir := t.TempDir()
	stop, err := Start("cpu", dir)
	if err != nil {
		t.Fatal(err)
	}
	stop()
	stop()
	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Fatalf("no profile written: %v", err)
	}
}

func TestStartModes(t *testing.T) {
	stop, err := Start("", "")
	if err != nil || stop == nil {
		t.Fatalf("empty mode: %v", err)
	}
	stop()
	if _, err := Start("flame", ""); err == nil {
		t.Fatalf("unknown mode accepted")
	}
	if got := Modes(); len(got) != len(modes) || got[0] != "allocs" {
		t.Errorf("modes %v", got)
	}
}
