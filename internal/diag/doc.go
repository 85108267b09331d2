// Package diag defines the diagnostic model shared by the checker, the CLI
// and the language server.
//
// Diagnostic is the central record: a Severity, a Code naming the rule, a
// short Message, the Primary span, and optional Notes, Fixes and Tags.
// Rules hand diagnostics to a Reporter; BagReporter collects them into a
// Bag, which can Sort them into the order clients see.
//
// Package diag performs no IO and no rendering beyond the compact golden
// format used by tests and `check --output short`. Terminal rendering lives
// in internal/diagfmt, protocol conversion in internal/lsp.
//
// Codes are grouped by prefix:
//
//	SYN  line syntax
//	CMD  commands and config names
//	IMP  import and try-import
//	FLG  flags
//	VER  flag data availability
package diag
