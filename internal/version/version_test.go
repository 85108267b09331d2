package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGetOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	info := Get()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("Get() = %+v", info)
	}

	Version = ""
	if got := Get().Version; got != "dev" {
		t.Errorf("empty version = %q", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	tests := []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "dev", "1.2"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) = %q without colour", v, got)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3-dev"); got == "1.2.3-dev" {
		t.Errorf("Colored did not add escape sequences")
	}
}
