package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Canonical Linux distribution families. Individual distros are folded
// into these so settings files and the non-Debian warning never have to
// match on raw probe strings.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// familyByName folds the distro and family spellings gopsutil reports
// into canonical families. Some systems report the distro ID where the
// family is expected, so both appear here.
var familyByName = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// hostDetector probes the machine benchgen runs on.
type hostDetector struct{}

// NewDetector returns a Detector for the running machine.
func NewDetector() Detector {
	return &hostDetector{}
}

// Detect reads OS and architecture from the runtime and, on Linux, asks
// gopsutil for distribution details. A failed distro probe is not an
// error: the package column depends only on the OS, so detection
// degrades to OS and architecture instead of blocking an upgrade.
// Context cancellation is the one hard failure.
func (d *hostDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		Arch:    canonicalArch(runtime.GOARCH),
		ArchRaw: runtime.GOARCH,
	}
	if info.OS != "linux" {
		return info, nil
	}

	distro, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if distro = canonicalDistro(distro); distro != "" {
		info.Platform = distro
		info.Family = canonicalFamily(family)
		info.Version = canonicalDistro(version)
	}
	return info, nil
}

// canonicalArch folds the spellings of amd64 and arm64 into one name
// each. Release packages carry no architecture dimension, so anything
// else passes through lowercased rather than failing detection.
func canonicalArch(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	}
	return strings.ToLower(strings.TrimSpace(arch))
}

// canonicalDistro lowercases and trims a distro ID or version string.
func canonicalDistro(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// canonicalFamily folds a distro family string into one of the Family
// constants, FamilyUnknown when unrecognized.
func canonicalFamily(family string) string {
	if canonical, ok := familyByName[canonicalDistro(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
