// Package settings provides benchgen's configuration: an immutable
// Settings value with built-in defaults, optionally overridden by a
// sandboxed Lua file (benchgen.lua) and command-line flags.
//
// Settings is passed by value and never mutated in place; overrides
// are expressed as copies (the With methods and the Lua loader both
// return a new value). There is no package-level configuration state.
package settings

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Built-in defaults. Every field of Settings has one, so benchgen
// works with no configuration file at all.
const (
	DefaultManifestURL = "https://releases.benchgen.dev/codegen/manifest.json"
	DefaultHTTPTimeout = 5 * time.Minute
	DefaultHTTPRetries = 3

	// ConfigFileName is the settings file looked up under the home dir.
	ConfigFileName = "benchgen.lua"
)

// Settings holds everything benchgen needs to run. Treat it as an
// immutable value: copy, don't mutate.
type Settings struct {
	// ManifestURL is where the release document is fetched from.
	ManifestURL string

	// HomeDir is benchgen's own directory (state, downloads, lock).
	HomeDir string

	// InstallDir is where the code generator lives.
	InstallDir string

	// Prerelease opts in to prerelease versions when selecting an
	// upgrade target.
	Prerelease bool

	// KeyringPath points to an optional GPG keyring. When the file
	// exists, downloaded packages must carry a valid detached
	// signature from one of its keys.
	KeyringPath string

	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration

	// HTTPRetries is how often transient download failures are
	// retried before giving up.
	HTTPRetries int
}

// Default returns the built-in defaults rooted at ~/.benchgen.
func Default() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("determine home directory: %w", err)
	}
	return DefaultAt(filepath.Join(home, ".benchgen")), nil
}

// DefaultAt returns the built-in defaults rooted at homeDir.
func DefaultAt(homeDir string) Settings {
	return Settings{
		ManifestURL: DefaultManifestURL,
		HomeDir:     homeDir,
		InstallDir:  filepath.Join(homeDir, "codegen"),
		KeyringPath: filepath.Join(homeDir, "trusted.gpg"),
		HTTPTimeout: DefaultHTTPTimeout,
		HTTPRetries: DefaultHTTPRetries,
	}
}

// ConfigPath is where the Lua settings file is expected.
func (s Settings) ConfigPath() string {
	return filepath.Join(s.HomeDir, ConfigFileName)
}

// ScratchDir is where packages are downloaded and verified.
func (s Settings) ScratchDir() string {
	return filepath.Join(s.HomeDir, "downloads")
}

// StatePath is where the installed-version record lives.
func (s Settings) StatePath() string {
	return filepath.Join(s.HomeDir, "state.json")
}

// LockPath is the advisory lock taken while an upgrade runs.
func (s Settings) LockPath() string {
	return filepath.Join(s.HomeDir, ".upgrade.lock")
}

// JournalDir is where upgrade journal records are written.
func (s Settings) JournalDir() string {
	return filepath.Join(s.HomeDir, "journal")
}

// WithManifestURL returns a copy with the manifest URL replaced.
func (s Settings) WithManifestURL(rawURL string) Settings {
	s.ManifestURL = rawURL
	return s
}

// WithPrerelease returns a copy with the prerelease flag replaced.
func (s Settings) WithPrerelease(enabled bool) Settings {
	s.Prerelease = enabled
	return s
}

// WithInstallDir returns a copy with the install directory replaced.
func (s Settings) WithInstallDir(dir string) Settings {
	s.InstallDir = dir
	return s
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.ManifestURL == "" {
		return &ValidationError{Field: "manifest_url", Message: "cannot be empty"}
	}
	if err := validateHTTPURL(s.ManifestURL); err != nil {
		return &ValidationError{Field: "manifest_url", Message: err.Error()}
	}
	if s.HomeDir == "" {
		return &ValidationError{Field: "home_dir", Message: "cannot be empty"}
	}
	if s.InstallDir == "" {
		return &ValidationError{Field: "install_dir", Message: "cannot be empty"}
	}
	if s.HTTPTimeout <= 0 {
		return &ValidationError{Field: "http.timeout_seconds", Message: "must be positive"}
	}
	if s.HTTPRetries < 0 {
		return &ValidationError{Field: "http.retries", Message: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "settings validation failed for " + e.Field + ": " + e.Message
	}
	return "settings validation failed: " + e.Message
}

func validateHTTPURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %s)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %s", rawURL)
	}
	return nil
}

// expandPath expands a leading ~/ to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
