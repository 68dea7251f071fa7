package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Target identifies which package column of a release manifest applies
// to a machine. It is decided once at the boundary; everything downstream
// switches on the Target value rather than on OS strings.
type Target int

const (
	TargetUnknown Target = iota
	TargetWin32
	TargetMacOS
	TargetUbuntu
)

// CurrentTarget maps the running OS onto a manifest target.
// Every Linux flavor uses the ubuntu packages.
func CurrentTarget() Target {
	return targetForOS(runtime.GOOS)
}

// Target maps detected platform information onto a manifest target.
func (i *Info) Target() Target {
	return targetForOS(i.OS)
}

func targetForOS(goos string) Target {
	switch goos {
	case "windows":
		return TargetWin32
	case "darwin":
		return TargetMacOS
	case "linux":
		return TargetUbuntu
	default:
		return TargetUnknown
	}
}

// ParseTarget converts a platform name (as written in settings files or
// flags) into a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win32", "windows":
		return TargetWin32, nil
	case "macos", "darwin":
		return TargetMacOS, nil
	case "ubuntu", "linux":
		return TargetUbuntu, nil
	default:
		return TargetUnknown, fmt.Errorf("unknown platform target: %q", s)
	}
}

// String returns the manifest column name for the target.
func (t Target) String() string {
	switch t {
	case TargetWin32:
		return "win32"
	case TargetMacOS:
		return "macOS"
	case TargetUbuntu:
		return "ubuntu"
	default:
		return "unknown"
	}
}
