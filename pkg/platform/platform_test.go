package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		wantURL string
		wantADB string
		wantErr error
	}{
		{
			name:    "windows",
			goos:    "windows",
			wantURL: "https://dl.google.com/android/repository/platform-tools-latest-windows.zip",
			wantADB: "adb.exe",
		},
		{
			name:    "linux",
			goos:    "linux",
			wantURL: "https://dl.google.com/android/repository/platform-tools-latest-linux.zip",
			wantADB: "adb",
		},
		{
			name:    "macOS",
			goos:    "darwin",
			wantURL: "https://dl.google.com/android/repository/platform-tools-latest-darwin.zip",
			wantADB: "adb",
		},
		{
			name:    "unrecognized",
			goos:    "plan9",
			wantErr: ErrUnsupportedPlatform,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Resolve(tt.goos)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.goos, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.goos, err)
			}
			if spec.DownloadURL != tt.wantURL {
				t.Errorf("DownloadURL = %q, want %q", spec.DownloadURL, tt.wantURL)
			}
			if spec.ADBName() != tt.wantADB {
				t.Errorf("ADBName() = %q, want %q", spec.ADBName(), tt.wantADB)
			}
			if want := strings.Replace(tt.wantADB, "adb", "fastboot", 1); spec.FastbootName() != want {
				t.Errorf("FastbootName() = %q, want %q", spec.FastbootName(), want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	// The test suite only runs on supported platforms, so Current must
	// resolve without error.
	spec, err := Current()
	if err != nil {
		t.Fatalf("Current() unexpected error: %v", err)
	}
	if spec.DownloadURL == "" {
		t.Error("Current() returned an empty download URL")
	}
}
