// Package manifest loads and interprets the remote release document that
// lists published code generator versions and their download locations.
package manifest

import (
	"fmt"

	"github.com/benchgen/benchgen/internal/platform"
)

// Document is the remote release listing. Field names follow the
// published document format exactly.
type Document struct {
	Items []Item `json:"codeGeneratorConfigItems"`
}

// Item describes one published code generator release.
type Item struct {
	Version     string   `json:"codeGeneratorVersion"`
	MinimumHost string   `json:"iotWorkbenchMinimalVersion"`
	Location    Location `json:"codeGeneratorLocation"`
}

// Location carries the per-platform package URLs and their MD5 digests.
type Location struct {
	Win32MD5  string `json:"win32Md5"`
	Win32URL  string `json:"win32PackageUrl"`
	MacOSMD5  string `json:"macOSMd5"`
	MacOSURL  string `json:"macOSPackageUrl"`
	UbuntuMD5 string `json:"ubuntuMd5"`
	UbuntuURL string `json:"ubuntuPackageUrl"`
}

// Package is the download location and expected digest for one platform.
type Package struct {
	URL string
	MD5 string
}

// PackageFor returns the download package for the target platform.
// It fails when the release has no URL or digest for that platform.
func (it *Item) PackageFor(target platform.Target) (Package, error) {
	var pkg Package
	switch target {
	case platform.TargetWin32:
		pkg = Package{URL: it.Location.Win32URL, MD5: it.Location.Win32MD5}
	case platform.TargetMacOS:
		pkg = Package{URL: it.Location.MacOSURL, MD5: it.Location.MacOSMD5}
	case platform.TargetUbuntu:
		pkg = Package{URL: it.Location.UbuntuURL, MD5: it.Location.UbuntuMD5}
	default:
		return Package{}, fmt.Errorf("release %s: no packages for target %s", it.Version, target)
	}

	if pkg.URL == "" {
		return Package{}, fmt.Errorf("release %s: no package URL for %s", it.Version, target)
	}
	if pkg.MD5 == "" {
		return Package{}, fmt.Errorf("release %s: no digest for %s", it.Version, target)
	}
	return pkg, nil
}
