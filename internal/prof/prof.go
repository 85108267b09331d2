// Package prof starts the runtime profilers behind the --profile flag.
package prof

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/profile"
)

var modes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

// Modes lists the accepted profile names.
func Modes() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start enables the profiler named by mode and writes its output under dir,
// or the working directory when dir is empty. The returned function stops
// the profiler and flushes the file; it is safe to call more than once.
// An empty mode is a no-op.
func Start(mode, dir string) (func(), error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" || mode == "off" {
		return func() {}, nil
	}
	opt, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("unknown profile mode %q (want one of %s)", mode, strings.Join(Modes(), ", "))
	}
	if dir == "" {
		dir = "."
	}
	p := profile.Start(opt, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet)
	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		p.Stop()
	}, nil
}
