package manifest

import (
	"sort"

	"github.com/benchgen/benchgen/internal/semver"
)

// SelectTarget picks the release that should be installed over the
// current one.
//
// Candidates are considered newest first. With prerelease set, the
// newest release wins regardless of host compatibility; otherwise the
// newest release whose minimum workbench version is satisfied by host
// wins. A nil current means nothing is installed, so any pick is
// actionable; with a current version, only a strictly newer pick is.
// Returns nil when there is nothing to do. Pure: the input slice is
// never reordered.
func SelectTarget(current *semver.Triple, items []Item, host semver.Triple, prerelease bool) *Item {
	selected := newestCompatible(items, host, prerelease)
	if selected == nil {
		return nil
	}
	if current != nil && semver.Compare(semver.Parse(selected.Version), *current) <= 0 {
		return nil
	}
	return selected
}

func newestCompatible(items []Item, host semver.Triple, prerelease bool) *Item {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi := semver.Parse(sorted[i].Version)
		vj := semver.Parse(sorted[j].Version)
		return semver.Compare(vi, vj) > 0
	})

	if prerelease {
		return &sorted[0]
	}

	for i := range sorted {
		min := semver.Parse(sorted[i].MinimumHost)
		if semver.Compare(min, host) <= 0 {
			return &sorted[i]
		}
	}
	return nil
}
