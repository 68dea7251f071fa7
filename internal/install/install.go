// Package install unpacks verified code generator packages and swaps
// them into the installation directory atomically. The directory that
// callers observe is always either the fully extracted new version,
// the untouched previous version, or absent before the first install.
package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Installer extracts downloaded packages and promotes them into place.
type Installer struct{}

// NewInstaller creates a new installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Install unpacks archivePath and makes it the content of targetDir.
//
// The archive format is detected by content, not extension. Extraction
// happens in a fresh staging directory next to targetDir; only after
// it completes in full is the staging directory renamed onto the
// target. The previous installation is moved aside first and restored
// if the swap fails, so it is never lost before the new version is in
// place. All failures are reported as *ExtractError.
func (i *Installer) Install(archivePath, targetDir string) error {
	if err := i.install(archivePath, targetDir); err != nil {
		return &ExtractError{Archive: archivePath, Err: err}
	}
	return nil
}

func (i *Installer) install(archivePath, targetDir string) error {
	kind, err := sniffKind(archivePath)
	if err != nil {
		return err
	}

	parent := filepath.Dir(targetDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create install parent: %w", err)
	}

	stagingDir := filepath.Join(parent, ".staging-"+uuid.New().String())
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	switch kind {
	case kindTarGz:
		err = extractTarGz(archivePath, stagingDir)
	case kindZip:
		err = extractZip(archivePath, stagingDir)
	}
	if err != nil {
		os.RemoveAll(stagingDir)
		return err
	}

	if err := promote(stagingDir, targetDir); err != nil {
		os.RemoveAll(stagingDir)
		return err
	}
	return nil
}

// promote renames stagingDir onto targetDir. An existing target is
// moved aside before the swap and removed only once the swap has
// succeeded; if the swap fails it is renamed back.
func promote(stagingDir, targetDir string) error {
	previousDir := filepath.Join(filepath.Dir(targetDir), ".previous-"+uuid.New().String())

	hadPrevious := false
	if _, err := os.Stat(targetDir); err == nil {
		if err := os.Rename(targetDir, previousDir); err != nil {
			return fmt.Errorf("set aside existing install: %w", err)
		}
		hadPrevious = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat install dir: %w", err)
	}

	if err := os.Rename(stagingDir, targetDir); err != nil {
		if hadPrevious {
			if restoreErr := os.Rename(previousDir, targetDir); restoreErr != nil {
				return fmt.Errorf("promote staging dir: %w (restore previous install: %v)", err, restoreErr)
			}
		}
		return fmt.Errorf("promote staging dir: %w", err)
	}

	if hadPrevious {
		if err := os.RemoveAll(previousDir); err != nil {
			return fmt.Errorf("remove previous install: %w", err)
		}
	}
	return nil
}
