package flags_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"bazelrc-lsp/internal/flags"
)

func load(t *testing.T, version string) *flags.Table {
	t.Helper()
	table, err := flags.Load(version)
	if err != nil {
		t.Fatalf("Load(%q): %v", version, err)
	}
	return table
}

func TestVersions(t *testing.T) {
	vs := flags.Versions()
	if len(vs) != 17 || vs[0] != "7.0.0" || vs[len(vs)-1] != "9.0.0-pre.20250121.1" {
		t.Fatalf("versions %v", vs)
	}
	if _, err := flags.Load("6.0.0"); !errors.Is(err, flags.ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestLoadShared(t *testing.T) {
	var wg sync.WaitGroup
	tables := make([]*flags.Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], _ = flags.Load("7.4.0")
		}(i)
	}
	wg.Wait()
	for i, table := range tables {
		if table == nil || table != tables[0] {
			t.Fatalf("table %d differs: %p vs %p", i, table, tables[0])
		}
	}
}

func TestResolve(t *testing.T) {
	table := load(t, "7.1.0")

	long, m := table.Resolve("keep_going")
	if long == nil || m != flags.MatchExact {
		t.Fatalf("keep_going: %v %v", long, m)
	}
	short, _ := table.Lookup("-k")
	if short != long {
		t.Fatalf("-k resolved to %+v", short)
	}
	if d, m := table.Resolve("nokeep_going"); d != long || !m.Negated() {
		t.Fatalf("nokeep_going: %v %v", d, m)
	}
	if d, m := table.Resolve("experimental_action_cache_store_output_metadata"); d == nil ||
		d.Name != "use_action_cache_store_output_metadata" || m != flags.MatchAlias {
		t.Fatalf("alias: %+v %v", d, m)
	}
	if d, m := table.Resolve("KEEP_GOING"); d != nil || m != flags.MatchNone {
		t.Fatalf("lookup must be case sensitive")
	}
	if d, _ := table.Resolve("no"); d != nil {
		t.Fatalf("bare no resolved to %+v", d)
	}

	// the old flag still exists under its own name in older releases
	old := load(t, "7.0.0")
	if d, m := old.Resolve("experimental_action_cache_store_output_metadata"); d == nil || m != flags.MatchExact {
		t.Fatalf("7.0.0 exact: %+v %v", d, m)
	}
}

func TestCommands(t *testing.T) {
	table := load(t, "8.0.0")
	batch, _ := table.Resolve("batch")
	keepGoing, _ := table.Resolve("keep_going")

	if !batch.AppliesTo("startup") || batch.AppliesTo("common") || batch.AppliesTo("build") {
		t.Fatalf("batch commands %v", batch.Commands)
	}
	if !keepGoing.AppliesTo("common") || !keepGoing.AppliesTo("always") || keepGoing.AppliesTo("startup") {
		t.Fatalf("keep_going commands %v", keepGoing.Commands)
	}

	contains := func(list []*flags.Descriptor, d *flags.Descriptor) bool {
		for _, x := range list {
			if x == d {
				return true
			}
		}
		return false
	}
	if startup := table.ForCommand("startup"); !contains(startup, batch) || contains(startup, keepGoing) {
		t.Fatalf("startup flags")
	}
	common := table.ForCommand("common")
	if contains(common, batch) || !contains(common, keepGoing) {
		t.Fatalf("common flags")
	}
	for i := 1; i < len(common); i++ {
		if common[i-1].Name >= common[i].Name {
			t.Fatalf("ForCommand not sorted at %d: %s >= %s", i, common[i-1].Name, common[i].Name)
		}
	}
}

func TestRequiresValue(t *testing.T) {
	table := load(t, "7.4.0")
	tests := []struct {
		name      string
		shorthand bool
		want      bool
	}{
		{"copt", false, true},
		{"keep_going", false, false},
		{"c", true, true},
		{"k", true, false},
		{"nocopt", false, false},
		{"unknown", false, false},
	}
	for _, tt := range tests {
		if got := table.RequiresValue(tt.name, tt.shorthand); got != tt.want {
			t.Errorf("RequiresValue(%q, %v) = %v", tt.name, tt.shorthand, got)
		}
	}
}

func TestDeprecated(t *testing.T) {
	table := load(t, "7.1.0")
	batch, _ := table.Resolve("batch")
	if msg, ok := batch.Deprecated(); !ok || msg != "" {
		t.Fatalf("batch: %q %v", msg, ok)
	}
	noop, _ := table.Resolve("incompatible_enable_cc_toolchain_resolution")
	if msg, ok := noop.Deprecated(); !ok || msg == "" {
		t.Fatalf("no-op flag: %q %v", msg, ok)
	}
}

func TestClosestIn(t *testing.T) {
	versions := []string{
		"7.0.0", "7.0.1", "7.0.2", "7.1.0", "7.1.1", "7.1.2", "7.2.0",
		"8.0.0", "8.0.1", "9.0.0-pre.20250121.1",
	}
	tests := []struct {
		hint, want string
	}{
		{"7.1.1", "7.1.1"},
		{"7.2.0", "7.2.0"},
		{"5.0.0", "7.0.0"},
		{"5.1.1", "7.0.0"},
		{"7.1.1rc2", "7.1.1"},
		{"7.1.2rc2", "7.1.2"},
		{"7.1.2-pre.123434", "7.1.2"},
		{"7.1.4", "7.1.2"},
		{"7.2.3", "7.2.0"},
		{"8.0.2", "8.0.1"},
		{"9.1.2", "9.0.0-pre.20250121.1"},
		{"7.*", "7.2.0"},
		{"7.+", "7.2.0"},
		{"7.1", "7.1.2"},
		{"latest", "9.0.0-pre.20250121.1"},
		{"latest-1", "9.0.0-pre.20250121.1"},
	}
	for _, tt := range tests {
		if got := flags.ClosestIn(versions, tt.hint); got != tt.want {
			t.Errorf("ClosestIn(%q) = %q, want %q", tt.hint, got, tt.want)
		}
	}
	if got := flags.Closest("7.4.3"); got != "7.4.1" {
		t.Errorf("Closest(7.4.3) = %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	table := load(t, "7.1.0")
	d, _ := table.Resolve("keep_going")
	want := "`--keep_going` [`-k`], `--nokeep_going`\n\n" +
		"Continue as much as possible after an error. While the target that failed " +
		"and those that depend on it cannot be analyzed, other prerequisites of these " +
		"targets can be.\n\n" +
		"Effect tags: eagerness_to_exit\\\n" +
		"Category: Execution Strategy"
	if got := d.Markdown(flags.Versions()); got != want {
		t.Fatalf("markdown:\n%s\nwant:\n%s", got, want)
	}

	cfg, _ := table.Resolve("config")
	if got := cfg.Markdown(nil); !strings.Contains(got, "&lt;command&gt;:&lt;config&gt;") {
		t.Fatalf("angle brackets not escaped:\n%s", got)
	}

	bzl, _ := table.Resolve("enable_workspace")
	if got := bzl.Markdown(flags.Versions()); !strings.Contains(got, "Available in: Bazel 7.1.0 and later") {
		t.Fatalf("version range missing:\n%s", got)
	}
}

func TestNewTable(t *testing.T) {
	table := flags.NewTable("1.0.0", []flags.Descriptor{
		{Name: "b", Commands: []string{"build"}},
		{Name: "a", Commands: []string{"build"}, Versions: []string{"1.0.0"}},
		{Name: "gone", Commands: []string{"build"}, Versions: []string{"0.9.0"}},
	})
	names := table.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("names %v", names)
	}
	if table.Version() != "1.0.0" {
		t.Fatalf("version %q", table.Version())
	}
}
