package format

import (
	"fmt"
	"strings"
)

// LineFlow selects how flags are distributed over lines.
type LineFlow uint8

const (
	// Keep preserves the physical grouping of the source.
	Keep LineFlow = iota
	// LineContinuations merges adjacent lines with the same command and
	// config and puts one flag per continuation line.
	LineContinuations
	// SeparateLines repeats the command for every flag.
	SeparateLines
	// SingleLine merges adjacent lines with the same command and config.
	SingleLine
)

var lineFlowNames = [...]string{
	Keep:              "keep",
	LineContinuations: "lineContinuations",
	SeparateLines:     "separateLines",
	SingleLine:        "singleLine",
}

func (f LineFlow) String() string {
	if int(f) < len(lineFlowNames) {
		return lineFlowNames[f]
	}
	return fmt.Sprintf("LineFlow(%d)", f)
}

// ParseLineFlow accepts the names printed by String, case-insensitively.
func ParseLineFlow(s string) (LineFlow, error) {
	for i, name := range lineFlowNames {
		if strings.EqualFold(s, name) {
			return LineFlow(i), nil
		}
	}
	return Keep, fmt.Errorf("unknown line flow %q (want one of %s)", s, strings.Join(LineFlowNames(), ", "))
}

// LineFlowNames lists the accepted LineFlow names.
func LineFlowNames() []string {
	return append([]string(nil), lineFlowNames[:]...)
}

type Options struct {
	LineFlow LineFlow
	// NormalizeValues rewrites `--flag value` to `--flag=value`. Shorthand
	// flags keep their form.
	NormalizeValues bool
}
