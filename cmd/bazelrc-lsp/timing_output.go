package main

import (
	"fmt"
	"io"

	"bazelrc-lsp/internal/driver"
	"bazelrc-lsp/internal/observ"
)

// printCheckTimings writes the phase durations summed over all files.
func printCheckTimings(out io.Writer, results []driver.DiagnoseResult) {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	total := observ.Aggregate(reports)
	fmt.Fprintf(out, "%d file(s)\n", len(reports))
	fmt.Fprint(out, total.Summary())
}
