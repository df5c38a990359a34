package config

import (
	"path/filepath"
	"sync"

	"foldertree/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatch reports edits to the settings file.
type FileWatch struct {
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// WatchFile calls onChange whenever the file at path is written, created,
// replaced or removed. The parent directory is watched because editors
// usually save by renaming a temp file over the original.
func WatchFile(path string, logger *zap.Logger, onChange func()) (*FileWatch, error) {
	logger = logging.OrNop(logger).Named("config")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	fw := &FileWatch{watcher: watcher, done: make(chan struct{})}
	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op == fsnotify.Chmod {
					continue
				}
				logger.Debug("config file changed", zap.String("path", target), zap.String("op", event.Op.String()))
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", zap.Error(err))
			case <-fw.done:
				return
			}
		}
	}()
	return fw, nil
}

// Close stops watching. Safe to call more than once.
func (fw *FileWatch) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
