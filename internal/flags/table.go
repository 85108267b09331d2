package flags

import (
	"sort"
	"strings"
)

// Match tells how Resolve found a descriptor.
type Match uint8

const (
	MatchNone Match = iota
	MatchExact
	// MatchAlias means the name was the flag's OldName.
	MatchAlias
	// MatchNegated means the name was `no` followed by the flag's name.
	MatchNegated
	// MatchNegatedAlias means the name was `no` followed by the OldName.
	MatchNegatedAlias
)

// Negated reports whether the match went through the `no` prefix.
func (m Match) Negated() bool {
	return m == MatchNegated || m == MatchNegatedAlias
}

// Alias reports whether the match went through an old name.
func (m Match) Alias() bool {
	return m == MatchAlias || m == MatchNegatedAlias
}

// Table is the immutable set of flags of one Bazel version.
type Table struct {
	version   string
	flags     []*Descriptor
	byName    map[string]*Descriptor
	byOldName map[string]*Descriptor
	byAbbrev  map[string]*Descriptor
	byCommand map[string][]*Descriptor
	commands  []string
}

// NewTable indexes descs for version. Descriptors restricted to other
// versions are skipped.
func NewTable(version string, descs []Descriptor) *Table {
	t := &Table{
		version:   version,
		byName:    make(map[string]*Descriptor),
		byOldName: make(map[string]*Descriptor),
		byAbbrev:  make(map[string]*Descriptor),
		byCommand: make(map[string][]*Descriptor),
	}
	for i := range descs {
		d := &descs[i]
		if !d.inVersion(version) {
			continue
		}
		t.flags = append(t.flags, d)
		t.byName[d.Name] = d
		if d.OldName != "" && d.OldName != d.Name {
			t.byOldName[d.OldName] = d
		}
		if d.Abbreviation != "" {
			t.byAbbrev[d.Abbreviation] = d
		}
		for _, c := range d.Commands {
			t.byCommand[c] = append(t.byCommand[c], d)
		}
	}
	sort.Slice(t.flags, func(i, j int) bool { return t.flags[i].Name < t.flags[j].Name })
	for c, list := range t.byCommand {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		t.commands = append(t.commands, c)
	}
	sort.Strings(t.commands)
	return t
}

// Version returns the Bazel version the table describes.
func (t *Table) Version() string {
	return t.version
}

// Flags returns every flag, sorted by name.
func (t *Table) Flags() []*Descriptor {
	return t.flags
}

// Commands returns the commands at least one flag applies to, sorted.
func (t *Table) Commands() []string {
	return t.commands
}

// Resolve looks a long flag name up without its dashes. Lookup is case
// sensitive and tries the exact name, then old names, then the name with a
// `no` prefix removed.
func (t *Table) Resolve(name string) (*Descriptor, Match) {
	if d, ok := t.byName[name]; ok {
		return d, MatchExact
	}
	if d, ok := t.byOldName[name]; ok {
		return d, MatchAlias
	}
	if base, ok := strings.CutPrefix(name, "no"); ok && base != "" {
		if d, ok := t.byName[base]; ok {
			return d, MatchNegated
		}
		if d, ok := t.byOldName[base]; ok {
			return d, MatchNegatedAlias
		}
	}
	return nil, MatchNone
}

// ResolveShorthand looks up a flag by its one-letter abbreviation.
func (t *Table) ResolveShorthand(letter string) (*Descriptor, bool) {
	d, ok := t.byAbbrev[letter]
	return d, ok
}

// Lookup resolves the written form of a flag, `--name` or `-k`, with an
// optional trailing `=`.
func (t *Table) Lookup(invocation string) (*Descriptor, Match) {
	s := strings.TrimSuffix(invocation, "=")
	if long, ok := strings.CutPrefix(s, "--"); ok {
		if strings.HasPrefix(long, "-") {
			return nil, MatchNone
		}
		return t.Resolve(long)
	}
	if short, ok := strings.CutPrefix(s, "-"); ok && !strings.HasPrefix(short, "-") {
		if d, ok := t.ResolveShorthand(short); ok {
			return d, MatchExact
		}
	}
	return nil, MatchNone
}

// ForCommand returns the flags accepted by cmd in name order.
func (t *Table) ForCommand(cmd string) []*Descriptor {
	if cmd == "common" || cmd == "always" {
		out := make([]*Descriptor, 0, len(t.flags))
		for _, d := range t.flags {
			if !d.StartupOnly() {
				out = append(out, d)
			}
		}
		return out
	}
	return t.byCommand[cmd]
}

// RequiresValue reports whether the flag consumes the next word when written
// without `=`. A negated flag never takes a value. A nil table knows no flags.
func (t *Table) RequiresValue(name string, shorthand bool) bool {
	if t == nil {
		return false
	}
	if shorthand {
		d, ok := t.ResolveShorthand(name)
		return ok && d.RequiresValue
	}
	d, m := t.Resolve(name)
	return d != nil && !m.Negated() && d.RequiresValue
}

// Names returns every flag name, for did-you-mean suggestions.
func (t *Table) Names() []string {
	out := make([]string, len(t.flags))
	for i, d := range t.flags {
		out[i] = d.Name
	}
	return out
}
