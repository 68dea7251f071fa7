// Package semver implements the three-component version scheme shared by
// code generator releases and the workbench host.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Triple is a major.minor.patch version. The zero value is "0.0.0".
// Triples are immutable values; all operations return new values.
type Triple struct {
	Major int
	Minor int
	Patch int
}

// Parse converts a dot-delimited version string into a Triple.
// Missing components default to 0, components beyond the third are
// ignored, and non-numeric or negative components are treated as 0 so
// that a malformed manifest entry sorts below every real release
// instead of aborting an upgrade check.
func Parse(s string) Triple {
	var t Triple
	parts := strings.SplitN(strings.TrimSpace(s), ".", 4)
	if len(parts) > 0 {
		t.Major = parseComponent(parts[0])
	}
	if len(parts) > 1 {
		t.Minor = parseComponent(parts[1])
	}
	if len(parts) > 2 {
		t.Patch = parseComponent(parts[2])
	}
	return t
}

func parseComponent(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Compare orders two triples: -1 when a sorts before b, 0 when they are
// equal, 1 when a sorts after b. Components are compared major first,
// then minor, then patch.
func Compare(a, b Triple) int {
	switch {
	case a.Major != b.Major:
		return cmpInt(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpInt(a.Minor, b.Minor)
	default:
		return cmpInt(a.Patch, b.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the triple as "major.minor.patch".
func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}
