package workspace

import (
	"fmt"

	"foldertree/internal/fileops"
	"foldertree/internal/model"

	"go.uber.org/zap"
)

// CreateFile creates an empty file called name inside parent.
func (w *Workspace) CreateFile(parent model.Node, name string) (string, error) {
	if !parent.IsDir {
		return "", fmt.Errorf("could not create file: %s: %w", parent.Path, ErrNotDirectory)
	}
	path, err := fileops.CreateFile(parent.Path, name)
	if err != nil {
		return "", w.fail("could not create file", parent.Path, err)
	}
	w.adapter.Refresh()
	return "File created: " + path, nil
}

// CreateFolder creates a directory called name inside parent.
func (w *Workspace) CreateFolder(parent model.Node, name string) (string, error) {
	if !parent.IsDir {
		return "", fmt.Errorf("could not create folder: %s: %w", parent.Path, ErrNotDirectory)
	}
	path, err := fileops.CreateDir(parent.Path, name)
	if err != nil {
		return "", w.fail("could not create folder", parent.Path, err)
	}
	w.adapter.Refresh()
	return "Folder created: " + path, nil
}

// Delete removes node, recursively for directories. Hosts must have asked
// the user for an explicit yes before calling.
func (w *Workspace) Delete(node model.Node) (string, error) {
	if err := fileops.Remove(node.Path, node.IsDir); err != nil {
		return "", w.fail("could not delete", node.Path, err)
	}
	w.adapter.Refresh()
	return "Deleted: " + node.Path, nil
}

// Rename renames node within its parent directory. Any expansion entry for
// the old path stays behind unmatched.
func (w *Workspace) Rename(node model.Node, newName string) (string, error) {
	newPath, err := fileops.Rename(node.Path, newName)
	if err != nil {
		return "", w.fail("could not rename", node.Path, err)
	}
	w.adapter.Refresh()
	return "Renamed to: " + newPath, nil
}

// Reveal shows node in the OS file browser.
func (w *Workspace) Reveal(node model.Node) error {
	if err := w.launcher.Reveal(node.Path); err != nil {
		w.logger.Warn("reveal failed", zap.String("path", node.Path), zap.Error(err))
		return err
	}
	return nil
}

// OpenDefault opens node with the OS default application.
func (w *Workspace) OpenDefault(node model.Node) error {
	if err := w.launcher.Open(node.Path); err != nil {
		w.logger.Warn("open failed", zap.String("path", node.Path), zap.Error(err))
		return err
	}
	return nil
}

func (w *Workspace) fail(action, path string, err error) error {
	w.logger.Warn(action, zap.String("path", path), zap.Error(err))
	return fmt.Errorf("%s: %w", action, err)
}
