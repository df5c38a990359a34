package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"foldertree/internal/logging"
	"foldertree/internal/signal"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Options controls manager behavior.
type Options struct {
	Logger *zap.Logger
	// Ignore holds doublestar patterns matched against the slash-separated
	// path relative to a root and against the base name. Matching events do
	// not signal and matching directories are not watched.
	Ignore []string
}

// Manager owns the watches for the current root set.
type Manager struct {
	mu      sync.Mutex
	roots   []*rootWatch
	ignore  []string
	signals *signal.Broadcaster
	logger  *zap.Logger
	closed  bool
}

type rootWatch struct {
	root      string
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Manager with no roots.
func New(opts Options) *Manager {
	logger := logging.OrNop(opts.Logger).Named("watch")
	ignore := make([]string, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			logger.Warn("invalid ignore pattern", zap.String("pattern", pattern))
			continue
		}
		ignore = append(ignore, pattern)
	}
	return &Manager{
		ignore:  ignore,
		signals: signal.New(),
		logger:  logger,
	}
}

// Subscribe returns the refresh signal channel and its cancel func.
func (m *Manager) Subscribe() (<-chan struct{}, func()) {
	return m.signals.Subscribe()
}

// SetRoots disposes every existing watch, then starts one recursive watch
// per path. Paths that cannot be watched are skipped silently.
func (m *Manager) SetRoots(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	m.disposeLocked()
	for _, path := range paths {
		rw, err := m.start(path)
		if err != nil {
			m.logger.Debug("watch start failed", zap.String("root", path), zap.Error(err))
			continue
		}
		m.roots = append(m.roots, rw)
	}
}

// Active returns the roots that currently have a live watch.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := make([]string, 0, len(m.roots))
	for _, rw := range m.roots {
		active = append(active, rw.root)
	}
	return active
}

// Close disposes all watches and closes subscriber channels. Safe to call
// more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.disposeLocked()
	m.mu.Unlock()

	m.signals.Close()
	return nil
}

func (m *Manager) disposeLocked() {
	for _, rw := range m.roots {
		rw.close(m.logger)
	}
	m.roots = nil
}

func (rw *rootWatch) close(logger *zap.Logger) {
	rw.closeOnce.Do(func() {
		close(rw.done)
		if err := rw.watcher.Close(); err != nil {
			logger.Debug("watch close failed", zap.String("root", rw.root), zap.Error(err))
		}
	})
}

func (m *Manager) start(root string) (*rootWatch, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	rw := &rootWatch{
		root:    root,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	added := m.addTree(rw, root)
	m.logger.Debug("watch started", zap.String("root", root), zap.Int("dirs", added+1))

	go m.run(rw)
	return rw, nil
}

// addTree watches every directory strictly below dir and returns how many
// were added.
func (m *Manager) addTree(rw *rootWatch, dir string) int {
	var (
		mu   sync.Mutex
		dirs []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || path == dir || !entry.IsDir() {
			return nil
		}
		if m.ignored(rw.root, path) {
			return filepath.SkipDir
		}
		mu.Lock()
		dirs = append(dirs, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		m.logger.Debug("walk failed", zap.String("path", dir), zap.Error(err))
	}

	slices.Sort(dirs)
	added := 0
	for _, path := range dirs {
		if err := rw.watcher.Add(path); err != nil {
			m.logger.Debug("watch add failed", zap.String("path", path), zap.Error(err))
			continue
		}
		added++
	}
	return added
}

func (m *Manager) run(rw *rootWatch) {
	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(rw, event)
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Debug("watch error", zap.String("root", rw.root), zap.Error(err))
		case <-rw.done:
			return
		}
	}
}

func (m *Manager) handleEvent(rw *rootWatch, event fsnotify.Event) {
	// Attribute-only events still signal: a touch changes the modified time
	// hosts display.
	if m.ignored(rw.root, event.Name) {
		return
	}
	if event.Has(fsnotify.Create) {
		// New directories join the watch so depth stays unbounded.
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := rw.watcher.Add(event.Name); err == nil {
				m.addTree(rw, event.Name)
			}
		}
	}
	m.signals.Notify()
}

func (m *Manager) ignored(root, path string) bool {
	if len(m.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range m.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", rel); ok {
			return true
		}
	}
	return false
}
