package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleDocument = `{
	"codeGeneratorConfigItems": [
		{
			"codeGeneratorVersion": "1.3.0",
			"iotWorkbenchMinimalVersion": "1.0.0",
			"codeGeneratorLocation": {
				"win32Md5": "0123456789abcdef0123456789abcdef",
				"win32PackageUrl": "https://example.com/codegen-1.3.0-win32.zip",
				"macOSMd5": "fedcba9876543210fedcba9876543210",
				"macOSPackageUrl": "https://example.com/codegen-1.3.0-mac.tar.gz",
				"ubuntuMd5": "00112233445566778899aabbccddeeff",
				"ubuntuPackageUrl": "https://example.com/codegen-1.3.0-ubuntu.tar.gz"
			}
		},
		{
			"codeGeneratorVersion": "1.2.0",
			"iotWorkbenchMinimalVersion": "0.9.0",
			"codeGeneratorLocation": {
				"win32Md5": "11111111111111111111111111111111",
				"win32PackageUrl": "https://example.com/codegen-1.2.0-win32.zip",
				"macOSMd5": "22222222222222222222222222222222",
				"macOSPackageUrl": "https://example.com/codegen-1.2.0-mac.tar.gz",
				"ubuntuMd5": "33333333333333333333333333333333",
				"ubuntuPackageUrl": "https://example.com/codegen-1.2.0-ubuntu.tar.gz"
			}
		}
	]
}`

func TestFetch(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		status        int
		wantErr       bool
		wantFormatErr bool
		wantItems     int
	}{
		{
			name:      "valid document",
			body:      sampleDocument,
			status:    http.StatusOK,
			wantItems: 2,
		},
		{
			name:      "empty release list",
			body:      `{"codeGeneratorConfigItems": []}`,
			status:    http.StatusOK,
			wantItems: 0,
		},
		{
			name:          "malformed json",
			body:          `{"codeGeneratorConfigItems": [`,
			status:        http.StatusOK,
			wantErr:       true,
			wantFormatErr: true,
		},
		{
			name:          "html error page",
			body:          `<html><body>maintenance</body></html>`,
			status:        http.StatusOK,
			wantErr:       true,
			wantFormatErr: true,
		},
		{
			name:          "missing release list key",
			body:          `{"something": "else"}`,
			status:        http.StatusOK,
			wantErr:       true,
			wantFormatErr: true,
		},
		{
			name:    "server error status",
			body:    `{}`,
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "not found status",
			body:    `missing`,
			status:  http.StatusNotFound,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			doc, err := Fetch(context.Background(), server.Client(), server.URL)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Fetch() expected error, got nil")
				}
				var formatErr *FormatError
				if got := errors.As(err, &formatErr); got != tt.wantFormatErr {
					t.Errorf("errors.As(err, *FormatError) = %v, want %v (err: %v)", got, tt.wantFormatErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(doc.Items) != tt.wantItems {
				t.Errorf("len(Items) = %d, want %d", len(doc.Items), tt.wantItems)
			}
		})
	}
}

func TestFetch_FieldNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	doc, err := Fetch(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	first := doc.Items[0]
	if first.Version != "1.3.0" {
		t.Errorf("Version = %q, want %q", first.Version, "1.3.0")
	}
	if first.MinimumHost != "1.0.0" {
		t.Errorf("MinimumHost = %q, want %q", first.MinimumHost, "1.0.0")
	}
	if first.Location.UbuntuURL != "https://example.com/codegen-1.3.0-ubuntu.tar.gz" {
		t.Errorf("UbuntuURL = %q", first.Location.UbuntuURL)
	}
	if first.Location.MacOSMD5 != "fedcba9876543210fedcba9876543210" {
		t.Errorf("MacOSMD5 = %q", first.Location.MacOSMD5)
	}
	if first.Location.Win32URL != "https://example.com/codegen-1.3.0-win32.zip" {
		t.Errorf("Win32URL = %q", first.Location.Win32URL)
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the request fails to connect

	_, err := Fetch(context.Background(), http.DefaultClient, server.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for unreachable server, got nil")
	}

	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		t.Errorf("transport failure should not be a FormatError, got %v", err)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, server.Client(), server.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for cancelled context, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got %v", err)
	}
}
