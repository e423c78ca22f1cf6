package platform

import (
	"errors"
	"runtime"
)

// Google only publishes "latest" platform-tools archives, one per OS.
const (
	windowsURL = "https://dl.google.com/android/repository/platform-tools-latest-windows.zip"
	linuxURL   = "https://dl.google.com/android/repository/platform-tools-latest-linux.zip"
	darwinURL  = "https://dl.google.com/android/repository/platform-tools-latest-darwin.zip"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform (windows, linux and macOS are supported)")

// Spec is everything the installer needs to know about the host OS:
// which archive to download and how executables are named.
type Spec struct {
	OS          string
	DownloadURL string
	ExeSuffix   string
}

// ADBName returns the platform-specific file name of the adb executable.
func (s Spec) ADBName() string {
	return "adb" + s.ExeSuffix
}

// FastbootName returns the platform-specific file name of the fastboot
// executable.
func (s Spec) FastbootName() string {
	return "fastboot" + s.ExeSuffix
}

// Resolve maps a GOOS identifier to its platform spec. Unrecognized
// identifiers fail with ErrUnsupportedPlatform before any network call
// can happen.
func Resolve(goos string) (Spec, error) {
	switch goos {
	case "windows":
		return Spec{OS: goos, DownloadURL: windowsURL, ExeSuffix: ".exe"}, nil
	case "linux":
		return Spec{OS: goos, DownloadURL: linuxURL}, nil
	case "darwin":
		return Spec{OS: goos, DownloadURL: darwinURL}, nil
	default:
		return Spec{}, ErrUnsupportedPlatform
	}
}

// Current resolves the platform this process is running on.
func Current() (Spec, error) {
	return Resolve(runtime.GOOS)
}
