package fileops

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Launcher hands paths to OS applications.
type Launcher interface {
	Open(path string) error
	Reveal(path string) error
}

// SystemLauncher starts the platform's desktop helpers.
type SystemLauncher struct {
	Platform Platform
	// Start runs argv without waiting for it to finish.
	Start func(argv []string) error
}

// NewSystemLauncher returns a launcher for the running OS.
func NewSystemLauncher() *SystemLauncher {
	return &SystemLauncher{
		Platform: DetectPlatform(runtime.GOOS),
		Start:    startDetached,
	}
}

// Open opens path with the OS default application.
func (l *SystemLauncher) Open(path string) error {
	if err := l.Start(l.Platform.OpenCommand(path)); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	return nil
}

// Reveal shows path in the OS file browser.
func (l *SystemLauncher) Reveal(path string) error {
	if err := l.Start(l.Platform.RevealCommand(path)); err != nil {
		return fmt.Errorf("failed to reveal in file browser: %w", err)
	}
	return nil
}

func startDetached(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	// Arguments go straight to the process, no shell is involved.
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child once the helper exits.
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
