package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"bazelrc-lsp/internal/flags"
)

// FlagInfo field numbers from Bazel's src/main/protobuf/bazel_flags.proto.
const (
	fieldFlagInfos             protowire.Number = 1
	fieldName                  protowire.Number = 1
	fieldHasNegativeFlag       protowire.Number = 2
	fieldDocumentation         protowire.Number = 3
	fieldCommands              protowire.Number = 4
	fieldAbbreviation          protowire.Number = 5
	fieldAllowsMultiple        protowire.Number = 6
	fieldEffectTags            protowire.Number = 7
	fieldMetadataTags          protowire.Number = 8
	fieldDocumentationCategory protowire.Number = 9
	fieldRequiresValue         protowire.Number = 10
	fieldOldName               protowire.Number = 11
	fieldDeprecationWarning    protowire.Number = 12
	// numbers used by pre-release builds before the fields landed upstream
	fieldOldNameDraft            protowire.Number = 99998
	fieldDeprecationWarningDraft protowire.Number = 99999
)

var errWireType = errors.New("unexpected wire type")

// dumpFlags returns the FlagCollection that `bazel help flags-as-proto`
// reports for version. Dumps are cached under cacheDir when it is set.
func dumpFlags(ctx context.Context, bazel, version, cacheDir string) ([]byte, error) {
	var cachePath string
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, "flags-dumps", version+".data")
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bazel, "help", "flags-as-proto")
	cmd.Env = append(os.Environ(), "USE_BAZEL_VERSION="+version)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s help flags-as-proto for %s: %w\n%s", bazel, version, err, stderr.Bytes())
	}
	data, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(stdout.Bytes())))
	if err != nil {
		return nil, fmt.Errorf("bazel %s: decode base64 output: %w", version, err)
	}

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(cachePath, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// decodeCollection reads the flag_infos of a serialized FlagCollection.
func decodeCollection(b []byte) ([]flags.Descriptor, error) {
	var out []flags.Descriptor
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if num == fieldFlagInfos {
			if typ != protowire.BytesType {
				return nil, fmt.Errorf("flag_infos: %w %d", errWireType, typ)
			}
			msg, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			d, err := decodeFlagInfo(msg)
			if err != nil {
				return nil, fmt.Errorf("flag #%d: %w", len(out), err)
			}
			out = append(out, d)
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return out, nil
}

func decodeFlagInfo(b []byte) (flags.Descriptor, error) {
	var d flags.Descriptor
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, protowire.ParseError(n)
		}
		b = b[n:]

		var str *string
		var list *[]string
		var flag *bool
		switch num {
		case fieldName:
			str = &d.Name
		case fieldDocumentation:
			str = &d.Documentation
		case fieldAbbreviation:
			str = &d.Abbreviation
		case fieldDocumentationCategory:
			str = &d.DocumentationCategory
		case fieldOldName, fieldOldNameDraft:
			str = &d.OldName
		case fieldDeprecationWarning, fieldDeprecationWarningDraft:
			str = &d.DeprecationWarning
		case fieldCommands:
			list = &d.Commands
		case fieldEffectTags:
			list = &d.EffectTags
		case fieldMetadataTags:
			list = &d.MetadataTags
		case fieldHasNegativeFlag:
			flag = &d.HasNegativeFlag
		case fieldAllowsMultiple:
			flag = &d.AllowsMultiple
		case fieldRequiresValue:
			flag = &d.RequiresValue
		}

		switch {
		case str != nil || list != nil:
			if typ != protowire.BytesType {
				return d, fmt.Errorf("field %d: %w %d", num, errWireType, typ)
			}
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			if str != nil {
				*str = v
			} else {
				*list = append(*list, v)
			}
			b = b[n:]
		case flag != nil:
			if typ != protowire.VarintType {
				return d, fmt.Errorf("field %d: %w %d", num, errWireType, typ)
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			*flag = protowire.DecodeBool(v)
			b = b[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if d.Name == "" {
		return d, errors.New("flag without a name")
	}
	slices.Sort(d.Commands)
	return d, nil
}

// mergeVersion records that Bazel version reports exactly dumped. Entries
// already listed for version are replaced; a flag whose metadata is unchanged
// gains version, any other flag is added as a new entry.
func mergeVersion(c *flags.Collection, dumped []flags.Descriptor, version string) {
	known := slices.Contains(c.Versions, version)
	kept := c.Flags[:0]
	for _, d := range c.Flags {
		if len(d.Versions) == 0 {
			d.Versions = slices.Clone(c.Versions)
		}
		if known {
			d.Versions = slices.DeleteFunc(d.Versions, func(v string) bool { return v == version })
			if len(d.Versions) == 0 {
				continue
			}
		}
		kept = append(kept, d)
	}
	c.Flags = kept
	if !known {
		c.Versions = append(c.Versions, version)
		slices.SortFunc(c.Versions, flags.CompareVersions)
	}

	for _, d := range dropShadowed(dumped) {
		i := slices.IndexFunc(c.Flags, func(e flags.Descriptor) bool { return sameMetadata(e, d) })
		if i >= 0 {
			c.Flags[i].Versions = append(c.Flags[i].Versions, version)
			continue
		}
		d.Versions = []string{version}
		c.Flags = append(c.Flags, d)
	}
	compactVersions(c)
}

// compactVersions clears Versions on flags present in every listed version.
func compactVersions(c *flags.Collection) {
	for i := range c.Flags {
		d := &c.Flags[i]
		slices.SortFunc(d.Versions, flags.CompareVersions)
		if slices.Equal(d.Versions, c.Versions) {
			d.Versions = nil
		}
	}
}

func sameMetadata(a, b flags.Descriptor) bool {
	return a.Name == b.Name &&
		a.Abbreviation == b.Abbreviation &&
		a.HasNegativeFlag == b.HasNegativeFlag &&
		a.AllowsMultiple == b.AllowsMultiple &&
		a.RequiresValue == b.RequiresValue &&
		a.OldName == b.OldName &&
		a.DeprecationWarning == b.DeprecationWarning &&
		a.DocumentationCategory == b.DocumentationCategory &&
		a.Documentation == b.Documentation &&
		slices.Equal(a.Commands, b.Commands) &&
		slices.Equal(a.EffectTags, b.EffectTags) &&
		slices.Equal(a.MetadataTags, b.MetadataTags)
}

// dropShadowed keeps one entry per name. Older releases report a deprecated
// startup --watchfs next to the build one; the deprecated entry loses.
func dropShadowed(dumped []flags.Descriptor) []flags.Descriptor {
	byName := make(map[string]int, len(dumped))
	out := dumped[:0]
	for _, d := range dumped {
		i, dup := byName[d.Name]
		if !dup {
			byName[d.Name] = len(out)
			out = append(out, d)
			continue
		}
		if _, deprecated := out[i].Deprecated(); deprecated {
			out[i] = d
		}
	}
	return out
}
