package flags

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// highest stands in for a missing version component.
const highest = 99

type semver struct {
	major, minor, patch int
}

func (a semver) compare(b semver) int {
	if c := cmp.Compare(a.major, b.major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.minor, b.minor); c != 0 {
		return c
	}
	return cmp.Compare(a.patch, b.patch)
}

// parseVersion reads major.minor.patch. A `*` or `+` minor selects the
// highest minor; a missing patch selects the highest patch; a patch like
// `1rc3` keeps its leading digits.
func parseVersion(s string) (semver, bool) {
	parts := strings.SplitN(s, ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return semver{}, false
	}
	v := semver{major: major}
	if len(parts) < 2 {
		v.patch = highest
		return v, true
	}
	if parts[1] == "*" || parts[1] == "+" {
		v.minor = highest
		return v, true
	}
	v.minor, _ = strconv.Atoi(parts[1])

	patch := ""
	if len(parts) == 3 {
		patch = parts[2]
	}
	end := 0
	for end < len(patch) && patch[end] >= '0' && patch[end] <= '9' {
		end++
	}
	if n, err := strconv.Atoi(patch[:end]); err == nil {
		v.patch = n
	} else {
		v.patch = highest
	}
	return v, true
}

// CompareVersions orders Bazel version strings numerically. Versions that
// do not parse sort first, then by plain string order.
func CompareVersions(a, b string) int {
	va, oka := parseVersion(a)
	vb, okb := parseVersion(b)
	switch {
	case oka && okb:
		if c := va.compare(vb); c != 0 {
			return c
		}
	case oka:
		return 1
	case okb:
		return -1
	}
	return strings.Compare(a, b)
}

// ClosestIn picks the best match for hint among available: the largest
// version not newer than hint, or the oldest one if hint predates them all.
// A hint that is not a version, like `latest`, yields the newest.
func ClosestIn(available []string, hint string) string {
	if len(available) == 0 {
		return ""
	}
	sorted := slices.Clone(available)
	slices.SortFunc(sorted, CompareVersions)

	want, ok := parseVersion(hint)
	if !ok {
		return sorted[len(sorted)-1]
	}
	idx, _ := slices.BinarySearchFunc(sorted, want, func(e string, target semver) int {
		v, _ := parseVersion(e)
		if v.compare(target) <= 0 {
			return -1
		}
		return 1
	})
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}
