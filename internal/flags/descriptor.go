package flags

import (
	"slices"
)

// Descriptor is the metadata Bazel reports for one flag.
type Descriptor struct {
	Name string `msgpack:"name" yaml:"name" json:"name"`
	// Commands lists the commands accepting the flag, sorted.
	Commands        []string `msgpack:"commands" yaml:"commands" json:"commands"`
	Abbreviation    string   `msgpack:"abbreviation,omitempty" yaml:"abbreviation,omitempty" json:"abbreviation,omitempty"`
	HasNegativeFlag bool     `msgpack:"has_negative_flag,omitempty" yaml:"has_negative_flag,omitempty" json:"has_negative_flag,omitempty"`
	AllowsMultiple  bool     `msgpack:"allows_multiple,omitempty" yaml:"allows_multiple,omitempty" json:"allows_multiple,omitempty"`
	RequiresValue   bool     `msgpack:"requires_value,omitempty" yaml:"requires_value,omitempty" json:"requires_value,omitempty"`
	// OldName is the name the flag had before it was renamed.
	OldName               string   `msgpack:"old_name,omitempty" yaml:"old_name,omitempty" json:"old_name,omitempty"`
	DeprecationWarning    string   `msgpack:"deprecation_warning,omitempty" yaml:"deprecation_warning,omitempty" json:"deprecation_warning,omitempty"`
	EffectTags            []string `msgpack:"effect_tags,omitempty" yaml:"effect_tags,omitempty" json:"effect_tags,omitempty"`
	MetadataTags          []string `msgpack:"metadata_tags,omitempty" yaml:"metadata_tags,omitempty" json:"metadata_tags,omitempty"`
	DocumentationCategory string   `msgpack:"documentation_category,omitempty" yaml:"documentation_category,omitempty" json:"documentation_category,omitempty"`
	Documentation         string   `msgpack:"documentation,omitempty" yaml:"documentation,omitempty" json:"documentation,omitempty"`
	// Versions are the Bazel releases the flag exists in; empty means all.
	Versions []string `msgpack:"versions,omitempty" yaml:"versions,omitempty" json:"versions,omitempty"`
}

// Collection is the on-disk form of the knowledge base.
type Collection struct {
	Versions []string     `msgpack:"versions" yaml:"versions"`
	Flags    []Descriptor `msgpack:"flags" yaml:"flags"`
}

const (
	categoryUndocumented = "UNDOCUMENTED"
	tagDeprecated        = "DEPRECATED"
)

// AppliesTo reports whether the flag is accepted by cmd. `common` and
// `always` accept every flag that is not startup-only.
func (d *Descriptor) AppliesTo(cmd string) bool {
	if cmd == "common" || cmd == "always" {
		return !d.StartupOnly()
	}
	return slices.Contains(d.Commands, cmd)
}

// StartupOnly reports whether the flag is a startup option and nothing else.
func (d *Descriptor) StartupOnly() bool {
	for _, c := range d.Commands {
		if c != "startup" {
			return false
		}
	}
	return true
}

// Deprecated returns the deprecation message, which may be empty for flags
// only tagged as deprecated.
func (d *Descriptor) Deprecated() (string, bool) {
	if d.DeprecationWarning != "" {
		return d.DeprecationWarning, true
	}
	return "", slices.Contains(d.MetadataTags, tagDeprecated)
}

// Undocumented reports whether Bazel hides the flag from its help output.
func (d *Descriptor) Undocumented() bool {
	return d.DocumentationCategory == categoryUndocumented
}

func (d *Descriptor) inVersion(version string) bool {
	return len(d.Versions) == 0 || slices.Contains(d.Versions, version)
}
