package tree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"foldertree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTree(t *testing.T, root string, dirs []string, files []string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	for _, file := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, file), nil, 0o644))
	}
}

func names(nodes []model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Name)
	}
	return out
}

func dirNode(path string) *model.Node {
	return &model.Node{Name: filepath.Base(path), Path: path, IsDir: true}
}

func TestListChildrenRootsSortedByLabel(t *testing.T) {
	settings := NewSettings([]string{"/b", "/a"}, false)
	m := New(settings, nil)

	roots := m.ListChildren(context.Background(), nil)

	require.Len(t, roots, 2)
	assert.Equal(t, []string{"/a", "/b"}, names(roots))
	for _, root := range roots {
		assert.True(t, root.IsRoot)
		assert.True(t, root.IsDir)
		assert.Equal(t, root.Name, root.Path)
	}
}

func TestListChildrenRootsKeepDotFolders(t *testing.T) {
	settings := NewSettings([]string{"/home/u/.config"}, false)
	roots := New(settings, nil).ListChildren(context.Background(), nil)
	assert.Equal(t, []string{"/home/u/.config"}, names(roots))
}

func TestListChildrenDirectoriesFirstHiddenExcluded(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, []string{"A"}, []string{"b.txt", ".hidden"})

	m := New(NewSettings([]string{dir}, false), nil)
	children := m.ListChildren(context.Background(), dirNode(dir))

	require.Len(t, children, 2)
	assert.Equal(t, model.Node{Name: "A", Path: filepath.Join(dir, "A"), IsDir: true}, children[0])
	assert.Equal(t, model.Node{Name: "b.txt", Path: filepath.Join(dir, "b.txt")}, children[1])
}

func TestListChildrenShowHiddenIncludesDotfiles(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, []string{".git", "src"}, []string{".env", "main.go"})

	settings := NewSettings([]string{dir}, true)
	m := New(settings, nil)

	assert.Equal(t, []string{".git", "src", ".env", "main.go"}, names(m.ListChildren(context.Background(), dirNode(dir))))

	settings.SetShowHidden(false)
	assert.Equal(t, []string{"src", "main.go"}, names(m.ListChildren(context.Background(), dirNode(dir))))
}

func TestListChildrenHiddenFilterIsNotRecursive(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, []string{"pkg"}, []string{"pkg/.keep", "pkg/visible"})

	m := New(NewSettings([]string{dir}, false), nil)
	children := m.ListChildren(context.Background(), dirNode(filepath.Join(dir, "pkg")))

	assert.Equal(t, []string{"visible"}, names(children))
}

func TestListChildrenPartitionedAndSorted(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir,
		[]string{"zeta", "Alpha", "beta"},
		[]string{"cherry.txt", "Banana.txt", "apple.txt"},
	)

	m := New(NewSettings([]string{dir}, false), nil)
	children := m.ListChildren(context.Background(), dirNode(dir))

	assert.Equal(t, []string{"Alpha", "beta", "zeta", "apple.txt", "Banana.txt", "cherry.txt"}, names(children))

	seenFile := false
	for _, child := range children {
		if !child.IsDir {
			seenFile = true
			continue
		}
		assert.False(t, seenFile, "directory %q listed after a file", child.Name)
	}
}

func TestListChildrenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, []string{"x", "y"}, []string{"a", "b"})

	m := New(NewSettings([]string{dir}, false), nil)
	first := m.ListChildren(context.Background(), dirNode(dir))
	second := m.ListChildren(context.Background(), dirNode(dir))

	assert.Equal(t, first, second)
}

func TestListChildrenFailureYieldsEmpty(t *testing.T) {
	m := New(NewSettings(nil, false), nil)

	missing := m.ListChildren(context.Background(), dirNode(filepath.Join(t.TempDir(), "missing")))
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Empty(t, m.ListChildren(context.Background(), dirNode(file)))
}

func TestListChildrenOfFileIsEmpty(t *testing.T) {
	m := New(NewSettings(nil, false), nil)
	assert.Empty(t, m.ListChildren(context.Background(), &model.Node{Name: "f", Path: "/tmp/f"}))
}

func TestListChildrenCancelledContext(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, nil, []string{"a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(NewSettings([]string{dir}, false), nil)
	assert.Empty(t, m.ListChildren(ctx, dirNode(dir)))
}

func TestSettingsCopiesFolders(t *testing.T) {
	folders := []string{"/a"}
	settings := NewSettings(folders, false)
	folders[0] = "/changed"

	got := settings.Folders()
	assert.Equal(t, []string{"/a"}, got)

	got[0] = "/mutated"
	assert.Equal(t, []string{"/a"}, settings.Folders())
}
