package manifest

import (
	"testing"

	"github.com/benchgen/benchgen/internal/platform"
)

func TestItem_PackageFor(t *testing.T) {
	full := Item{
		Version:     "1.3.0",
		MinimumHost: "1.0.0",
		Location: Location{
			Win32MD5:  "aa",
			Win32URL:  "https://example.com/win32.zip",
			MacOSMD5:  "bb",
			MacOSURL:  "https://example.com/mac.tar.gz",
			UbuntuMD5: "cc",
			UbuntuURL: "https://example.com/ubuntu.tar.gz",
		},
	}

	tests := []struct {
		name    string
		item    Item
		target  platform.Target
		wantURL string
		wantMD5 string
		wantErr bool
	}{
		{
			name:    "win32",
			item:    full,
			target:  platform.TargetWin32,
			wantURL: "https://example.com/win32.zip",
			wantMD5: "aa",
		},
		{
			name:    "macos",
			item:    full,
			target:  platform.TargetMacOS,
			wantURL: "https://example.com/mac.tar.gz",
			wantMD5: "bb",
		},
		{
			name:    "ubuntu",
			item:    full,
			target:  platform.TargetUbuntu,
			wantURL: "https://example.com/ubuntu.tar.gz",
			wantMD5: "cc",
		},
		{
			name:    "unknown target",
			item:    full,
			target:  platform.TargetUnknown,
			wantErr: true,
		},
		{
			name: "missing url",
			item: Item{
				Version:  "1.3.0",
				Location: Location{UbuntuMD5: "cc"},
			},
			target:  platform.TargetUbuntu,
			wantErr: true,
		},
		{
			name: "missing digest",
			item: Item{
				Version:  "1.3.0",
				Location: Location{UbuntuURL: "https://example.com/ubuntu.tar.gz"},
			},
			target:  platform.TargetUbuntu,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := tt.item.PackageFor(tt.target)

			if tt.wantErr {
				if err == nil {
					t.Fatal("PackageFor() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("PackageFor() error = %v", err)
			}
			if pkg.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", pkg.URL, tt.wantURL)
			}
			if pkg.MD5 != tt.wantMD5 {
				t.Errorf("MD5 = %q, want %q", pkg.MD5, tt.wantMD5)
			}
		})
	}
}
