package flags

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// commandDocs are the one-line summaries `bazel help` prints.
var commandDocs = map[string]string{
	"analyze-profile":    "Analyzes build profile data.",
	"aquery":             "Analyzes the given targets and queries the action graph.",
	"build":              "Builds the specified targets.",
	"canonicalize-flags": "Canonicalizes a list of bazel options.",
	"clean":              "Removes output files and optionally stops the server.",
	"config":             "Displays details of configurations.",
	"coverage":           "Generates code coverage report for specified test targets.",
	"cquery":             "Loads, analyzes, and queries the specified targets w/ configurations.",
	"dump":               "Dumps the internal state of the bazel server process.",
	"fetch":              "Fetches external repositories that are prerequisites to the targets.",
	"help":               "Prints help for commands, or the index.",
	"info":               "Displays runtime info about the bazel server.",
	"license":            "Prints the license of this software.",
	"mobile-install":     "Installs targets to mobile devices.",
	"mod":                "Queries the Bzlmod external dependency graph",
	"print_action":       "Prints the command line args for compiling a file.",
	"query":              "Executes a dependency graph query.",
	"run":                "Runs the specified target.",
	"shutdown":           "Stops the bazel server.",
	"sync":               "Syncs all repositories specified in the workspace file",
	"test":               "Builds and runs the specified test targets.",
	"vendor":             "Fetches external repositories into a specific folder specified by the flag --vendor_dir.",
	"version":            "Prints version information for bazel.",
	"startup":            "Options for the Bazel server, applied before the command.",
	"common":             "Options applied to every command that supports them.",
	"always":             "Options applied to every command; unsupported ones are an error.",
	"import":             "Imports the given bazelrc file. Fails if the file does not exist.",
	"try-import":         "Imports the given bazelrc file if it exists.",
}

// CommandDoc returns the summary of a command keyword.
func CommandDoc(cmd string) (string, bool) {
	doc, ok := commandDocs[cmd]
	return doc, ok
}

// Markdown renders the hover documentation of d. versions, when non-empty,
// are all embedded versions and are used to describe where the flag exists.
func (d *Descriptor) Markdown(versions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "`--%s`", d.Name)
	if d.Abbreviation != "" {
		fmt.Fprintf(&b, " [`-%s`]", d.Abbreviation)
	}
	if d.HasNegativeFlag {
		fmt.Fprintf(&b, ", `--no%s`", d.Name)
	}
	if d.Documentation != "" {
		b.WriteString("\n\n")
		b.WriteString(escapeHTML(d.Documentation))
	}
	if msg, ok := d.Deprecated(); ok {
		b.WriteString("\n\n**Deprecated**")
		if msg != "" {
			b.WriteString(": ")
			b.WriteString(escapeHTML(msg))
		}
	}
	if d.OldName != "" {
		fmt.Fprintf(&b, "\n\nFormerly `--%s`.", d.OldName)
	}

	b.WriteString("\n\n")
	if len(d.EffectTags) > 0 {
		b.WriteString("Effect tags: ")
		b.WriteString(lowerJoin(d.EffectTags))
		b.WriteString("\\\n")
	}
	if len(d.MetadataTags) > 0 {
		b.WriteString("Tags: ")
		b.WriteString(lowerJoin(d.MetadataTags))
		b.WriteString("\\\n")
	}
	if d.DocumentationCategory != "" {
		category := strings.ReplaceAll(strings.ToLower(d.DocumentationCategory), "_", " ")
		fmt.Fprintf(&b, "Category: %s\\\n", cases.Title(language.English).String(category))
	}
	if r := d.versionRange(versions); r != "" {
		fmt.Fprintf(&b, "Available in: %s\n", r)
	}
	return strings.TrimSuffix(b.String(), "\\\n")
}

func (d *Descriptor) versionRange(all []string) string {
	if len(d.Versions) == 0 || len(all) == 0 {
		return ""
	}
	vs := slices.Clone(d.Versions)
	slices.SortFunc(vs, CompareVersions)
	first, last := vs[0], vs[len(vs)-1]
	if first == last {
		return "Bazel " + first
	}
	if last == all[len(all)-1] {
		return "Bazel " + first + " and later"
	}
	if first == all[0] {
		return "Bazel " + last + " and earlier"
	}
	return "Bazel " + first + " to " + last
}

func lowerJoin(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(t)
	}
	return strings.Join(out, ", ")
}

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
