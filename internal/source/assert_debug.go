//go:build debug

package source

import "fmt"

// Assert panics when cond is false. Only debug builds check invariants.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("invariant violated: "+format, args...))
	}
}
