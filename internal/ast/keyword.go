package ast

import "sort"

// Keyword is the command a bazelrc line applies to.
type Keyword uint8

const (
	KwUnknown Keyword = iota
	KwStartup
	KwCommon
	KwAlways
	KwImport
	KwTryImport
	KwAnalyzeProfile
	KwAquery
	KwBuild
	KwCanonicalizeFlags
	KwClean
	KwConfig
	KwCoverage
	KwCquery
	KwDump
	KwFetch
	KwHelp
	KwInfo
	KwLicense
	KwMobileInstall
	KwMod
	KwPrintAction
	KwQuery
	KwRun
	KwShutdown
	KwSync
	KwTest
	KwVendor
	KwVersion
)

var keywordNames = [...]string{
	KwUnknown:           "",
	KwStartup:           "startup",
	KwCommon:            "common",
	KwAlways:            "always",
	KwImport:            "import",
	KwTryImport:         "try-import",
	KwAnalyzeProfile:    "analyze-profile",
	KwAquery:            "aquery",
	KwBuild:             "build",
	KwCanonicalizeFlags: "canonicalize-flags",
	KwClean:             "clean",
	KwConfig:            "config",
	KwCoverage:          "coverage",
	KwCquery:            "cquery",
	KwDump:              "dump",
	KwFetch:             "fetch",
	KwHelp:              "help",
	KwInfo:              "info",
	KwLicense:           "license",
	KwMobileInstall:     "mobile-install",
	KwMod:               "mod",
	KwPrintAction:       "print_action",
	KwQuery:             "query",
	KwRun:               "run",
	KwShutdown:          "shutdown",
	KwSync:              "sync",
	KwTest:              "test",
	KwVendor:            "vendor",
	KwVersion:           "version",
}

var keywordByName = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		if name != "" {
			m[name] = Keyword(kw)
		}
	}
	return m
}()

// LookupKeyword maps a command name to its keyword; KwUnknown if unrecognised.
func LookupKeyword(name string) Keyword {
	return keywordByName[name]
}

func (k Keyword) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return ""
}

// Known reports whether k is a recognised keyword.
func (k Keyword) Known() bool {
	return k != KwUnknown && int(k) < len(keywordNames)
}

// IsImport reports whether k is import or try-import.
func (k Keyword) IsImport() bool {
	return k == KwImport || k == KwTryImport
}

// AllowsConfig reports whether a `:config` suffix is meaningful for k.
func (k Keyword) AllowsConfig() bool {
	switch k {
	case KwStartup, KwImport, KwTryImport:
		return false
	default:
		return true
	}
}

// AppliesToAll reports whether flags of every command are accepted under k.
func (k Keyword) AppliesToAll() bool {
	return k == KwCommon || k == KwAlways
}

// KeywordNames returns every recognised keyword, sorted.
func KeywordNames() []string {
	out := make([]string, 0, len(keywordByName))
	for name := range keywordByName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
