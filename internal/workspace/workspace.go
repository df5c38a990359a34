// Package workspace coordinates the folder tree: it owns the root folder
// list and the hidden toggle, wires the tree model, expansion store, watch
// manager and view adapter together, and implements the user actions.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"foldertree/internal/config"
	"foldertree/internal/fileops"
	"foldertree/internal/logging"
	"foldertree/internal/model"
	"foldertree/internal/state"
	"foldertree/internal/tree"
	"foldertree/internal/view"
	"foldertree/internal/watch"

	"go.uber.org/zap"
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrNotRoot      = errors.New("not a root folder")
)

// Options configures Open.
type Options struct {
	ConfigPath string
	// StateDir holds the expansion database. Empty keeps expansion state in
	// memory only.
	StateDir string
	// Persister overrides the expansion persister chosen from StateDir.
	Persister state.Persister
	Launcher  fileops.Launcher
	Logger    *zap.Logger
	// ShowHidden overrides the configured toggle for this run.
	ShowHidden *bool
	// WatchConfig reloads settings when the config file is edited externally.
	WatchConfig bool
}

// Workspace is the coordinating component behind every host.
type Workspace struct {
	mu     sync.Mutex
	store  *config.Store
	ignore []string
	// fileHidden is the toggle as stored in the settings file, which a
	// one-run override does not change.
	fileHidden  bool
	settings    *tree.Settings
	expansion   *state.Expansion
	watcher     *watch.Manager
	adapter     *view.Adapter
	launcher    fileops.Launcher
	logger      *zap.Logger
	cancel      context.CancelFunc
	configWatch *config.FileWatch
	closeOnce   sync.Once
}

// Open loads settings and expansion state and starts watching the roots.
func Open(opts Options) (*Workspace, error) {
	logger := logging.OrNop(opts.Logger)
	store := config.NewStore(opts.ConfigPath)
	loaded, err := store.Load()
	if err != nil {
		return nil, err
	}

	persister := opts.Persister
	if persister == nil && opts.StateDir != "" {
		// Another running instance holds the database lock; carry on without
		// remembering expansion rather than refusing to start.
		db, err := state.OpenLevelDB(filepath.Join(opts.StateDir, "expansion"))
		if err != nil {
			logger.Warn("expansion state unavailable", zap.Error(err))
		} else {
			persister = db
		}
	}
	if persister == nil {
		persister = state.NewMemoryPersister()
	}
	expansion := state.Open(persister, logger)

	showHidden := loaded.ShowHidden
	if opts.ShowHidden != nil {
		showHidden = *opts.ShowHidden
	}
	settings := tree.NewSettings(canonicalFolders(loaded.Folders), showHidden)

	launcher := opts.Launcher
	if launcher == nil {
		launcher = fileops.NewSystemLauncher()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		store:      store,
		ignore:     loaded.WatchIgnore,
		fileHidden: loaded.ShowHidden,
		settings:   settings,
		expansion:  expansion,
		watcher:    watch.New(watch.Options{Logger: logger, Ignore: loaded.WatchIgnore}),
		launcher:   launcher,
		logger:     logger.Named("workspace"),
		cancel:     cancel,
	}
	w.adapter = view.New(tree.New(settings, logger), expansion)
	w.adapter.Follow(ctx, w.watcher)
	w.watcher.SetRoots(settings.Folders())

	if opts.WatchConfig {
		fw, err := config.WatchFile(store.Path(), logger, w.ReloadSettings)
		if err != nil {
			w.logger.Debug("config watch unavailable", zap.String("path", store.Path()), zap.Error(err))
		} else {
			w.configWatch = fw
		}
	}

	w.logger.Info("workspace opened",
		zap.String("config", store.Path()),
		zap.Int("folders", len(loaded.Folders)),
		zap.Int("expanded", expansion.Len()),
	)
	return w, nil
}

// Host returns the rendering contract for this workspace.
func (w *Workspace) Host() view.Host {
	return w.adapter
}

// Folders returns the configured root folders.
func (w *Workspace) Folders() []string {
	return w.settings.Folders()
}

// ShowHidden reports the current hidden toggle.
func (w *Workspace) ShowHidden() bool {
	return w.settings.ShowHidden()
}

// ConfigPath returns the settings file location.
func (w *Workspace) ConfigPath() string {
	return w.store.Path()
}

// AddFolder appends dir to the root folder list.
func (w *Workspace) AddFolder(dir string) (string, error) {
	path, err := canonical(dir)
	if err != nil {
		return "", fmt.Errorf("could not add folder: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("could not add folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("could not add folder: %s: %w", path, ErrNotDirectory)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	folders := w.settings.Folders()
	if slices.Contains(folders, path) {
		return "Folder already in list.", nil
	}
	w.applyFoldersLocked(append(folders, path))
	return "Added folder: " + path, nil
}

// RemoveFolder drops a root folder from the list.
func (w *Workspace) RemoveFolder(dir string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	folders := w.settings.Folders()
	target := dir
	if !slices.Contains(folders, target) {
		// Accept relative or ~ spellings from the command line.
		if path, err := canonical(dir); err == nil && slices.Contains(folders, path) {
			target = path
		} else {
			return "", fmt.Errorf("%s: %w", dir, ErrNotRoot)
		}
	}
	remaining := slices.DeleteFunc(folders, func(f string) bool { return f == target })
	w.applyFoldersLocked(remaining)
	return "Removed folder: " + target, nil
}

// ToggleShowHidden flips the hidden-file toggle.
func (w *Workspace) ToggleShowHidden() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	show := !w.settings.ShowHidden()
	w.settings.SetShowHidden(show)
	w.fileHidden = show
	w.saveLocked()
	w.adapter.Refresh()
	if show {
		return "Showing hidden files"
	}
	return "Hiding hidden files"
}

// ReloadSettings re-reads the settings file and applies any differences.
func (w *Workspace) ReloadSettings() {
	loaded, err := w.store.Load()
	if err != nil {
		w.logger.Warn("reload config failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	changed := false
	folders := canonicalFolders(loaded.Folders)
	if !slices.Equal(folders, w.settings.Folders()) {
		w.settings.SetFolders(folders)
		w.watcher.SetRoots(folders)
		changed = true
	}
	// Only an edit to the stored toggle replaces a one-run override.
	if loaded.ShowHidden != w.fileHidden {
		w.fileHidden = loaded.ShowHidden
		w.settings.SetShowHidden(loaded.ShowHidden)
		changed = true
	}
	if changed {
		w.logger.Info("config reloaded", zap.Int("folders", len(folders)))
		w.adapter.Refresh()
	}
}

// Close stops watching and releases the expansion database.
func (w *Workspace) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		if w.configWatch != nil {
			_ = w.configWatch.Close()
		}
		_ = w.watcher.Close()
		w.adapter.Close()
		err = w.expansion.Close()
	})
	return err
}

func (w *Workspace) applyFoldersLocked(folders []string) {
	w.settings.SetFolders(folders)
	w.saveLocked()
	w.watcher.SetRoots(folders)
	w.adapter.Refresh()
}

func (w *Workspace) saveLocked() {
	err := w.store.Save(config.Settings{
		Folders:     w.settings.Folders(),
		ShowHidden:  w.fileHidden,
		WatchIgnore: w.ignore,
	})
	if err != nil {
		w.logger.Warn("save config failed", zap.Error(err))
	}
}

func canonical(dir string) (string, error) {
	return filepath.Abs(model.ExpandTilde(dir))
}

// canonicalFolders resolves hand-written entries (~, relative paths) and
// drops duplicates that resolve to the same directory.
func canonicalFolders(folders []string) []string {
	out := make([]string, 0, len(folders))
	for _, dir := range folders {
		path, err := canonical(dir)
		if err != nil {
			path = dir
		}
		if !slices.Contains(out, path) {
			out = append(out, path)
		}
	}
	return out
}
