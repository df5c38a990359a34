// Package fileops performs the file-management actions offered on tree
// nodes and launches OS applications for them.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrInvalidName = errors.New("invalid name")
	ErrExists      = errors.New("already exists")
)

// ValidateName checks a single path component typed by the user.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	for _, r := range name {
		if r == 0 || (r < 32 && r != '\t') {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
		}
	}
	return nil
}

// CreateFile creates an empty file named name inside dir.
func CreateFile(dir, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", err
	}
	return path, f.Close()
}

// CreateDir creates a directory named name inside dir.
func CreateDir(dir, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", err
	}
	return path, nil
}

// Remove deletes path; directories are removed with all descendants.
func Remove(path string, isDir bool) error {
	if isDir {
		if _, err := os.Lstat(path); err != nil {
			return err
		}
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Rename renames path to newName within the same parent directory and
// returns the new path.
func Rename(path, newName string) (string, error) {
	if err := ValidateName(newName); err != nil {
		return "", err
	}
	newPath := filepath.Join(filepath.Dir(path), newName)
	if newPath == path {
		return path, nil
	}
	if _, err := os.Lstat(newPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, newPath)
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}
