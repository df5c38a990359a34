package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"foldertree/internal/config"
	"foldertree/internal/fileops"
	"foldertree/internal/model"
	"foldertree/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

type fakeLauncher struct {
	opened   []string
	revealed []string
	err      error
}

func (f *fakeLauncher) Open(path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

func (f *fakeLauncher) Reveal(path string) error {
	f.revealed = append(f.revealed, path)
	return f.err
}

type fixture struct {
	ws        *Workspace
	root      string
	cfgPath   string
	persister *state.MemoryPersister
	launcher  *fakeLauncher
}

func newFixture(t *testing.T, expanded ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "A"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0o644))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.NewStore(cfgPath).Save(config.Settings{Folders: []string{root}}))

	f := &fixture{
		root:      root,
		cfgPath:   cfgPath,
		persister: state.NewMemoryPersister(expanded...),
		launcher:  &fakeLauncher{},
	}
	ws, err := Open(Options{ConfigPath: cfgPath, Persister: f.persister, Launcher: f.launcher})
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	f.ws = ws
	return f
}

func (f *fixture) rootNode() model.Node {
	return model.Node{Name: filepath.Base(f.root), Path: f.root, IsDir: true, IsRoot: true}
}

func (f *fixture) childNames(t *testing.T) []string {
	t.Helper()
	root := f.rootNode()
	var names []string
	for _, n := range f.ws.Host().Children(context.Background(), &root) {
		names = append(names, n.Name)
	}
	return names
}

func TestOpenListsConfiguredRoots(t *testing.T) {
	f := newFixture(t)

	roots := f.ws.Host().Children(context.Background(), nil)
	require.Len(t, roots, 1)
	assert.Equal(t, f.root, roots[0].Path)
	assert.True(t, roots[0].IsRoot)
	assert.Equal(t, []string{"A", "b.txt"}, f.childNames(t))
}

func TestOpenSeedsExpansion(t *testing.T) {
	f := newFixture(t)
	a := filepath.Join(f.root, "A")

	ws, err := Open(Options{
		ConfigPath: f.cfgPath,
		Persister:  state.NewMemoryPersister(a),
		Launcher:   f.launcher,
	})
	require.NoError(t, err)
	defer ws.Close()

	vs := ws.Host().VisualState(model.Node{Name: "A", Path: a, IsDir: true})
	assert.True(t, vs.Expanded)
}

func TestOpenShowHiddenOverride(t *testing.T) {
	f := newFixture(t)
	show := true

	ws, err := Open(Options{ConfigPath: f.cfgPath, ShowHidden: &show, Launcher: f.launcher})
	require.NoError(t, err)
	defer ws.Close()

	assert.True(t, ws.ShowHidden())
}

func TestOpenMalformedConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("folders: [unterminated"), 0o644))

	_, err := Open(Options{ConfigPath: cfgPath})
	assert.Error(t, err)
}

func TestAddFolder(t *testing.T) {
	f := newFixture(t)
	other := t.TempDir()

	msg, err := f.ws.AddFolder(other)
	require.NoError(t, err)
	assert.Equal(t, "Added folder: "+other, msg)
	assert.Equal(t, []string{f.root, other}, f.ws.Folders())

	saved, err := config.NewStore(f.cfgPath).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{f.root, other}, saved.Folders)
}

func TestAddFolderDuplicate(t *testing.T) {
	f := newFixture(t)

	msg, err := f.ws.AddFolder(f.root)
	require.NoError(t, err)
	assert.Equal(t, "Folder already in list.", msg)
	assert.Equal(t, []string{f.root}, f.ws.Folders())
}

func TestAddFolderRejectsFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.AddFolder(filepath.Join(f.root, "b.txt"))
	assert.True(t, errors.Is(err, ErrNotDirectory))
	assert.Equal(t, []string{f.root}, f.ws.Folders())
}

func TestRemoveFolder(t *testing.T) {
	f := newFixture(t)

	msg, err := f.ws.RemoveFolder(f.root)
	require.NoError(t, err)
	assert.Equal(t, "Removed folder: "+f.root, msg)
	assert.Empty(t, f.ws.Folders())
	assert.Empty(t, f.ws.Host().Children(context.Background(), nil))
}

func TestRemoveFolderIgnoresNonRoot(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.RemoveFolder(filepath.Join(f.root, "A"))
	assert.True(t, errors.Is(err, ErrNotRoot))
	assert.Equal(t, []string{f.root}, f.ws.Folders())
}

func TestToggleShowHidden(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Showing hidden files", f.ws.ToggleShowHidden())
	assert.Equal(t, []string{"A", ".hidden", "b.txt"}, f.childNames(t))

	saved, err := config.NewStore(f.cfgPath).Load()
	require.NoError(t, err)
	assert.True(t, saved.ShowHidden)

	assert.Equal(t, "Hiding hidden files", f.ws.ToggleShowHidden())
	assert.Equal(t, []string{"A", "b.txt"}, f.childNames(t))
}

func TestReloadSettings(t *testing.T) {
	f := newFixture(t)
	other := t.TempDir()
	require.NoError(t, config.NewStore(f.cfgPath).Save(config.Settings{
		Folders:    []string{other, f.root},
		ShowHidden: true,
	}))

	f.ws.ReloadSettings()

	assert.Equal(t, []string{other, f.root}, f.ws.Folders())
	assert.True(t, f.ws.ShowHidden())
}

func TestCreateFile(t *testing.T) {
	f := newFixture(t)
	sub, cancel := f.ws.Host().Subscribe()
	defer cancel()

	msg, err := f.ws.CreateFile(f.rootNode(), "new.txt")
	require.NoError(t, err)
	assert.Equal(t, "File created: "+filepath.Join(f.root, "new.txt"), msg)
	assert.Contains(t, f.childNames(t), "new.txt")
	assert.GreaterOrEqual(t, len(sub), 1)
}

func TestCreateFileExisting(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.CreateFile(f.rootNode(), "b.txt")
	assert.True(t, errors.Is(err, fileops.ErrExists))
	assert.Contains(t, err.Error(), "could not create file")
}

func TestCreateFileInFile(t *testing.T) {
	f := newFixture(t)
	file := model.Node{Name: "b.txt", Path: filepath.Join(f.root, "b.txt")}

	_, err := f.ws.CreateFile(file, "x")
	assert.True(t, errors.Is(err, ErrNotDirectory))
}

func TestCreateFolder(t *testing.T) {
	f := newFixture(t)

	msg, err := f.ws.CreateFolder(f.rootNode(), "Sub")
	require.NoError(t, err)
	assert.Equal(t, "Folder created: "+filepath.Join(f.root, "Sub"), msg)
	assert.Equal(t, []string{"A", "Sub", "b.txt"}, f.childNames(t))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	a := model.Node{Name: "A", Path: filepath.Join(f.root, "A"), IsDir: true}
	require.NoError(t, os.WriteFile(filepath.Join(a.Path, "inner.txt"), nil, 0o644))

	msg, err := f.ws.Delete(a)
	require.NoError(t, err)
	assert.Equal(t, "Deleted: "+a.Path, msg)
	assert.Equal(t, []string{"b.txt"}, f.childNames(t))
}

func TestRenameLeavesExpansionEntry(t *testing.T) {
	f := newFixture(t)
	a := filepath.Join(f.root, "A")
	f.ws.Host().Expand(a)

	msg, err := f.ws.Rename(model.Node{Name: "A", Path: a, IsDir: true}, "C")
	require.NoError(t, err)
	assert.Equal(t, "Renamed to: "+filepath.Join(f.root, "C"), msg)
	assert.Equal(t, []string{"C", "b.txt"}, f.childNames(t))

	c := model.Node{Name: "C", Path: filepath.Join(f.root, "C"), IsDir: true}
	assert.False(t, f.ws.Host().VisualState(c).Expanded)
	persisted, err := f.persister.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{a}, persisted)
}

func TestRenameRejectsInvalidName(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.Rename(model.Node{Name: "b.txt", Path: filepath.Join(f.root, "b.txt")}, "../x")
	assert.True(t, errors.Is(err, fileops.ErrInvalidName))
}

func TestOpenAndReveal(t *testing.T) {
	f := newFixture(t)
	file := model.Node{Name: "b.txt", Path: filepath.Join(f.root, "b.txt")}

	require.NoError(t, f.ws.OpenDefault(file))
	require.NoError(t, f.ws.Reveal(file))
	assert.Equal(t, []string{file.Path}, f.launcher.opened)
	assert.Equal(t, []string{file.Path}, f.launcher.revealed)

	f.launcher.err = errors.New("boom")
	assert.Error(t, f.ws.OpenDefault(file))
}

func TestCloseIdempotent(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.ws.Close())
	assert.NoError(t, f.ws.Close())
}

func TestExpansionSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	stateDir := t.TempDir()
	a := filepath.Join(f.root, "A")

	ws, err := Open(Options{ConfigPath: f.cfgPath, StateDir: stateDir, Launcher: f.launcher})
	require.NoError(t, err)
	ws.Host().Expand(a)
	require.NoError(t, ws.Close())

	reopened, err := Open(Options{ConfigPath: f.cfgPath, StateDir: stateDir, Launcher: f.launcher})
	require.NoError(t, err)
	defer reopened.Close()
	assert.True(t, reopened.Host().VisualState(model.Node{Name: "A", Path: a, IsDir: true}).Expanded)
}

func TestOpenRecoversFromUnreadableExpansionState(t *testing.T) {
	f := newFixture(t)
	stateDir := t.TempDir()
	db, err := leveldb.OpenFile(filepath.Join(stateDir, "expansion"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte(state.ExpandedIDsKey), []byte("not json"), nil))
	require.NoError(t, db.Close())

	ws, err := Open(Options{ConfigPath: f.cfgPath, StateDir: stateDir, Launcher: f.launcher})
	require.NoError(t, err)
	defer ws.Close()

	a := model.Node{Name: "A", Path: filepath.Join(f.root, "A"), IsDir: true}
	assert.False(t, ws.Host().VisualState(a).Expanded)
	ws.Host().Expand(a.Path)
	assert.True(t, ws.Host().VisualState(a).Expanded)
}

func TestShowHiddenOverrideIsNotSaved(t *testing.T) {
	f := newFixture(t)
	show := true
	ws, err := Open(Options{ConfigPath: f.cfgPath, ShowHidden: &show, Persister: state.NewMemoryPersister(), Launcher: f.launcher})
	require.NoError(t, err)
	defer ws.Close()

	_, err = ws.AddFolder(t.TempDir())
	require.NoError(t, err)

	saved, err := config.NewStore(f.cfgPath).Load()
	require.NoError(t, err)
	assert.False(t, saved.ShowHidden)

	// Reloading our own write keeps the override in effect.
	ws.ReloadSettings()
	assert.True(t, ws.ShowHidden())

	// Toggling is an explicit choice and is written back.
	ws.ToggleShowHidden()
	saved, err = config.NewStore(f.cfgPath).Load()
	require.NoError(t, err)
	assert.False(t, saved.ShowHidden)
	assert.False(t, ws.ShowHidden())
}

func TestHandWrittenFoldersAreResolved(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	notes := filepath.Join(home, "notes")
	require.NoError(t, os.Mkdir(notes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "todo.txt"), nil, 0o644))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.NewStore(cfgPath).Save(config.Settings{Folders: []string{"~/notes", notes}}))

	ws, err := Open(Options{ConfigPath: cfgPath, Persister: state.NewMemoryPersister(), Launcher: &fakeLauncher{}})
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, []string{notes}, ws.Folders())
	roots := ws.Host().Children(context.Background(), nil)
	require.Len(t, roots, 1)
	children := ws.Host().Children(context.Background(), &roots[0])
	require.Len(t, children, 1)
	assert.Equal(t, "todo.txt", children[0].Name)

	require.NoError(t, config.NewStore(cfgPath).Save(config.Settings{Folders: []string{"~/notes"}}))
	ws.ReloadSettings()
	assert.Equal(t, []string{notes}, ws.Folders())
}
