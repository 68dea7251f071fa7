package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benchgen/benchgen/internal/platform"
)

// mockDetector is a test implementation of platform.Detector.
type mockDetector struct {
	info *platform.Info
	err  error
}

func (m *mockDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return m.info, m.err
}

func TestLoader_ParseString_FullOverride(t *testing.T) {
	luaCode := `
		benchgen = {
			manifest_url = "https://mirror.example.com/codegen.json",
			install_dir = "/opt/workbench/codegen",
			prerelease = true,
			keyring = "/etc/benchgen/trusted.gpg",
			http = {
				timeout_seconds = 60,
				retries = 5,
			},
		}
	`

	base := DefaultAt(t.TempDir())
	loader := NewLoader(nil)
	s, err := loader.ParseString(context.Background(), base, luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if s.ManifestURL != "https://mirror.example.com/codegen.json" {
		t.Errorf("ManifestURL = %s", s.ManifestURL)
	}
	if s.InstallDir != "/opt/workbench/codegen" {
		t.Errorf("InstallDir = %s", s.InstallDir)
	}
	if !s.Prerelease {
		t.Error("Prerelease = false, want true")
	}
	if s.KeyringPath != "/etc/benchgen/trusted.gpg" {
		t.Errorf("KeyringPath = %s", s.KeyringPath)
	}
	if s.HTTPTimeout != time.Minute {
		t.Errorf("HTTPTimeout = %v, want 1m", s.HTTPTimeout)
	}
	if s.HTTPRetries != 5 {
		t.Errorf("HTTPRetries = %d, want 5", s.HTTPRetries)
	}
}

func TestLoader_ParseString_PartialKeepsDefaults(t *testing.T) {
	luaCode := `
		benchgen = {
			prerelease = true,
		}
	`

	base := DefaultAt(t.TempDir())
	s, err := NewLoader(nil).ParseString(context.Background(), base, luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if !s.Prerelease {
		t.Error("Prerelease = false, want true")
	}
	if s.ManifestURL != base.ManifestURL {
		t.Errorf("ManifestURL = %s, want base default", s.ManifestURL)
	}
	if s.InstallDir != base.InstallDir {
		t.Errorf("InstallDir = %s, want base default", s.InstallDir)
	}
	if s.HTTPTimeout != base.HTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want base default", s.HTTPTimeout)
	}
}

func TestLoader_ParseString_MissingTable(t *testing.T) {
	base := DefaultAt(t.TempDir())
	_, err := NewLoader(nil).ParseString(context.Background(), base, `local x = 42`)
	if err == nil {
		t.Fatal("expected error for missing benchgen table, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if !strings.Contains(parseErr.Message, "missing or invalid 'benchgen' table") {
		t.Errorf("Message = %s", parseErr.Message)
	}
}

func TestLoader_ParseString_SyntaxError(t *testing.T) {
	base := DefaultAt(t.TempDir())
	_, err := NewLoader(nil).ParseString(context.Background(), base, `benchgen = { this is not lua`)
	if err == nil {
		t.Fatal("expected error for broken Lua, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if parseErr.Message != "Lua syntax error" {
		t.Errorf("Message = %s, want Lua syntax error", parseErr.Message)
	}
}

func TestLoader_ParseString_ValidationFailure(t *testing.T) {
	luaCode := `
		benchgen = {
			manifest_url = "ftp://example.com/codegen.json",
		}
	`

	base := DefaultAt(t.TempDir())
	_, err := NewLoader(nil).ParseString(context.Background(), base, luaCode)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if !strings.Contains(parseErr.Detail, "manifest_url") {
		t.Errorf("Detail = %s, want mention of manifest_url", parseErr.Detail)
	}
}

func TestLoader_ParseString_PlatformConditional(t *testing.T) {
	luaCode := `
		benchgen = {
			prerelease = platform.is_linux,
		}
	`

	tests := []struct {
		name           string
		info           *platform.Info
		wantPrerelease bool
	}{
		{
			name:           "linux host",
			info:           &platform.Info{OS: "linux", Arch: "amd64"},
			wantPrerelease: true,
		},
		{
			name:           "windows host",
			info:           &platform.Info{OS: "windows", Arch: "amd64"},
			wantPrerelease: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultAt(t.TempDir())
			loader := NewLoader(&mockDetector{info: tt.info})
			s, err := loader.ParseString(context.Background(), base, luaCode)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if s.Prerelease != tt.wantPrerelease {
				t.Errorf("Prerelease = %t, want %t", s.Prerelease, tt.wantPrerelease)
			}
		})
	}
}

func TestLoader_ParseString_DetectorError(t *testing.T) {
	base := DefaultAt(t.TempDir())
	loader := NewLoader(&mockDetector{err: errors.New("no platform info")})
	_, err := loader.ParseString(context.Background(), base, `benchgen = {}`)
	if err == nil {
		t.Fatal("expected error from failing detector, got nil")
	}
	if !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("error = %v", err)
	}
}

func TestLoader_ParseString_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	luaCode := `
		benchgen = {
			install_dir = "~/workbench/codegen",
		}
	`

	base := DefaultAt(t.TempDir())
	s, err := NewLoader(nil).ParseString(context.Background(), base, luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := filepath.Join(home, "workbench", "codegen")
	if s.InstallDir != want {
		t.Errorf("InstallDir = %s, want %s", s.InstallDir, want)
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	base := DefaultAt(t.TempDir())

	s, err := NewLoader(nil).Load(context.Background(), base)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if s != base {
		t.Errorf("Load() = %+v, want base settings unchanged", s)
	}
}

func TestLoader_Load_ReadsFile(t *testing.T) {
	base := DefaultAt(t.TempDir())
	if err := os.MkdirAll(base.HomeDir, 0755); err != nil {
		t.Fatalf("create home dir: %v", err)
	}

	luaCode := "benchgen = {\n  prerelease = true,\n}\n"
	if err := os.WriteFile(base.ConfigPath(), []byte(luaCode), 0644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}

	s, err := NewLoader(nil).Load(context.Background(), base)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Prerelease {
		t.Error("Prerelease = false, want true from file")
	}
}
