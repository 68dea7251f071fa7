// Package platform detects the machine benchgen runs on and maps it
// onto the release manifest's package columns.
//
// Only the operating system decides the package column. Architecture
// and Linux distribution details exist for narration, for the
// non-Debian warning, and for the read-only table handed to Lua
// settings files.
package platform

import "context"

// Info describes the detected machine.
type Info struct {
	OS      string // runtime.GOOS: "linux", "darwin", "windows"
	Arch    string // canonical architecture: "amd64", "arm64"
	ArchRaw string // architecture as reported, before canonicalization

	// Linux distribution details. Empty on other systems and when the
	// distro probe fails.
	Platform string // distro ID, e.g. "ubuntu"
	Family   string // canonical distro family, e.g. "debian"
	Version  string // distro release, e.g. "22.04"
}

// Distro is the Linux distribution view of an Info.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns the distribution details, or nil when the machine
// is not Linux or the probe came up empty.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux reports whether the machine runs Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS reports whether the machine runs macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows reports whether the machine runs Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsDebianFamily reports whether the machine runs a Debian-derived
// distribution. Release packages are built for Ubuntu; the upgrade
// command warns before installing them anywhere else.
func (i *Info) IsDebianFamily() bool {
	return i.OS == "linux" && i.Family == FamilyDebian
}

// Detector probes a machine. The CLI uses the real detector; tests
// substitute canned values.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
