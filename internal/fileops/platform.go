package fileops

import "path/filepath"

// Platform defines how to hand a path to the OS desktop.
type Platform interface {
	OpenCommand(path string) []string
	RevealCommand(path string) []string
	Name() string
}

// DarwinPlatform implements Platform for macOS.
type DarwinPlatform struct{}

func (p *DarwinPlatform) OpenCommand(path string) []string {
	return []string{"open", path}
}

func (p *DarwinPlatform) RevealCommand(path string) []string {
	// -R selects the item in Finder
	return []string{"open", "-R", path}
}

func (p *DarwinPlatform) Name() string {
	return "darwin"
}

// WindowsPlatform implements Platform for Windows.
type WindowsPlatform struct{}

func (p *WindowsPlatform) OpenCommand(path string) []string {
	// Empty title argument so paths with spaces aren't taken as the title
	return []string{"cmd", "/c", "start", "", path}
}

func (p *WindowsPlatform) RevealCommand(path string) []string {
	return []string{"explorer", "/select,", path}
}

func (p *WindowsPlatform) Name() string {
	return "windows"
}

// XDGPlatform implements Platform for Linux and other freedesktop systems.
type XDGPlatform struct{}

func (p *XDGPlatform) OpenCommand(path string) []string {
	return []string{"xdg-open", path}
}

func (p *XDGPlatform) RevealCommand(path string) []string {
	// xdg-open cannot select an item, so open the parent directory
	return []string{"xdg-open", filepath.Dir(path)}
}

func (p *XDGPlatform) Name() string {
	return "xdg"
}

// DetectPlatform picks the Platform for a GOOS value.
func DetectPlatform(goos string) Platform {
	switch goos {
	case "darwin":
		return &DarwinPlatform{}
	case "windows":
		return &WindowsPlatform{}
	default:
		return &XDGPlatform{}
	}
}
