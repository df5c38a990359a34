package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	signalTimeout = 2 * time.Second
	quietPeriod   = 300 * time.Millisecond
)

func waitForSignal(signals <-chan struct{}, timeout time.Duration) bool {
	select {
	case _, ok := <-signals:
		return ok
	case <-time.After(timeout):
		return false
	}
}

func drain(signals <-chan struct{}) {
	for {
		select {
		case <-signals:
		case <-time.After(quietPeriod):
			return
		}
	}
}

func TestManagerSignalsNestedChange(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m := New(Options{})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()

	m.SetRoots([]string{root})
	require.Equal(t, []string{root}, m.Active())

	require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("x"), 0o644))
	assert.True(t, waitForSignal(signals, signalTimeout), "expected refresh for nested write")
}

func TestManagerWatchesDirectoriesCreatedLater(t *testing.T) {
	root := t.TempDir()

	m := New(Options{})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()
	m.SetRoots([]string{root})

	later := filepath.Join(root, "later")
	require.NoError(t, os.Mkdir(later, 0o755))
	require.True(t, waitForSignal(signals, signalTimeout), "expected refresh for mkdir")
	drain(signals)

	require.NoError(t, os.WriteFile(filepath.Join(later, "file.txt"), nil, 0o644))
	assert.True(t, waitForSignal(signals, signalTimeout), "expected refresh inside new directory")
}

func TestManagerSignalsRemove(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "gone.txt")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	m := New(Options{})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()
	m.SetRoots([]string{root})

	require.NoError(t, os.Remove(target))
	assert.True(t, waitForSignal(signals, signalTimeout))
}

func TestManagerIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	deps := filepath.Join(root, "node_modules", "left-pad")
	require.NoError(t, os.MkdirAll(deps, 0o755))

	m := New(Options{Ignore: []string{"node_modules", "*.swp"}})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()
	m.SetRoots([]string{root})

	require.NoError(t, os.WriteFile(filepath.Join(deps, "index.js"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".main.go.swp"), nil, 0o644))
	assert.False(t, waitForSignal(signals, quietPeriod), "ignored paths must not signal")

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), nil, 0o644))
	assert.True(t, waitForSignal(signals, signalTimeout))
}

func TestManagerInvalidIgnorePatternDropped(t *testing.T) {
	m := New(Options{Ignore: []string{"[", "*.tmp"}})
	defer m.Close()
	assert.Equal(t, []string{"*.tmp"}, m.ignore)
}

func TestManagerMissingRootIsSkipped(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing")

	m := New(Options{})
	defer m.Close()
	m.SetRoots([]string{missing, root})

	assert.Equal(t, []string{root}, m.Active())
}

func TestManagerSetRootsDisposesPreviousWatches(t *testing.T) {
	oldRoot := t.TempDir()
	newRoot := t.TempDir()

	m := New(Options{})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()

	m.SetRoots([]string{oldRoot})
	m.SetRoots([]string{newRoot})
	assert.Equal(t, []string{newRoot}, m.Active())
	drain(signals)

	require.NoError(t, os.WriteFile(filepath.Join(oldRoot, "stale.txt"), nil, 0o644))
	assert.False(t, waitForSignal(signals, quietPeriod), "disposed root must not signal")

	require.NoError(t, os.WriteFile(filepath.Join(newRoot, "fresh.txt"), nil, 0o644))
	assert.True(t, waitForSignal(signals, signalTimeout))
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	m := New(Options{})
	signals, _ := m.Subscribe()
	m.SetRoots([]string{t.TempDir()})

	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())

	_, ok := <-signals
	assert.False(t, ok)

	m.SetRoots([]string{t.TempDir()})
	assert.Empty(t, m.Active())
}

func TestIgnoredMatchesRelativeAndBase(t *testing.T) {
	m := New(Options{Ignore: []string{"build/**", ".git"}})
	defer m.Close()

	assert.True(t, m.ignored("/r", "/r/build/out/bin"))
	assert.True(t, m.ignored("/r", "/r/.git"))
	assert.True(t, m.ignored("/r", "/r/.git/HEAD"))
	assert.True(t, m.ignored("/r", "/r/sub/.git"))
	assert.False(t, m.ignored("/r", "/r/src/build.go"))
	assert.False(t, m.ignored("/r", "/r"))
}

func TestIgnoredAcceptsDotDotPrefixedNames(t *testing.T) {
	m := New(Options{Ignore: []string{"..cache"}})
	defer m.Close()

	assert.True(t, m.ignored("/r", "/r/..cache"))
	assert.True(t, m.ignored("/r", "/r/sub/..cache"))
	assert.False(t, m.ignored("/r", "/other/..cache"))
}

func TestManagerSignalsTouch(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	m := New(Options{})
	defer m.Close()
	signals, cancel := m.Subscribe()
	defer cancel()
	m.SetRoots([]string{root})
	drain(signals)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))
	assert.True(t, waitForSignal(signals, signalTimeout), "expected refresh for modified time change")
}
