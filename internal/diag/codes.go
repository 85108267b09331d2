package diag

import (
	"fmt"
)

// Code identifies the rule that produced a diagnostic. Codes are numbered in
// rule priority order, which breaks ties between diagnostics at one offset.
type Code uint16

const (
	UnknownCode Code = 0

	// Line syntax
	InvalidLine Code = 1001

	// Commands and configs
	MissingCommand    Code = 2001
	UnknownCommand    Code = 2002
	DisallowedConfig  Code = 2003
	InvalidConfigName Code = 2004

	// Imports
	InvalidImport     Code = 3001
	MissingImportFile Code = 3002

	// Flags
	UnknownFlag      Code = 4001
	InapplicableFlag Code = 4002
	DeprecatedFlag   Code = 4003
	UnnegatableFlag  Code = 4004
	MissingFlagValue Code = 4005

	// Knowledge base
	UnknownVersion Code = 5001
)

var codeNames = map[Code]string{
	UnknownCode:       "Unknown",
	InvalidLine:       "InvalidLine",
	MissingCommand:    "MissingCommand",
	UnknownCommand:    "UnknownCommand",
	DisallowedConfig:  "DisallowedConfig",
	InvalidConfigName: "InvalidConfigName",
	InvalidImport:     "InvalidImport",
	MissingImportFile: "MissingImportFile",
	UnknownFlag:       "UnknownFlag",
	InapplicableFlag:  "InapplicableFlag",
	DeprecatedFlag:    "DeprecatedFlag",
	UnnegatableFlag:   "UnnegatableFlag",
	MissingFlagValue:  "MissingFlagValue",
	UnknownVersion:    "UnknownVersion",
}

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	InvalidLine:       "Line cannot be tokenized",
	MissingCommand:    "Flags without a command",
	UnknownCommand:    "Unknown command",
	DisallowedConfig:  "Config name on a command without configs",
	InvalidConfigName: "Invalid config name",
	InvalidImport:     "Malformed import",
	MissingImportFile: "Imported file does not exist",
	UnknownFlag:       "Unknown flag",
	InapplicableFlag:  "Flag not supported by the command",
	DeprecatedFlag:    "Deprecated flag",
	UnnegatableFlag:   "Flag cannot be negated",
	MissingFlagValue:  "Flag requires a value",
	UnknownVersion:    "No flag data for the Bazel version",
}

// ID returns the stable short identifier, like FLG4001.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CMD%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("FLG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("VER%04d", ic)
	}
	return "E0000"
}

// Name returns the rule name, like UnknownFlag.
func (c Code) Name() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[UnknownCode]
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
