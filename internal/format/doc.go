// Package format re-renders bazelrc documents.
//
// Formatting works on whole logical lines, grouped by the selected LineFlow.
// Spacing, quoting and blank lines are always normalised; lines that failed
// to parse are copied verbatim.
// Dependencies: internal/ast, internal/source.
package format
