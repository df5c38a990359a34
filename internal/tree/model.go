// Package tree computes the children of tree nodes from the filesystem.
package tree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"foldertree/internal/logging"
	"foldertree/internal/model"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Model lists node children on demand. Queries are independent and have no
// side effects, so the same node may be listed concurrently.
type Model struct {
	settings *Settings
	logger   *zap.Logger
}

// New creates a Model reading folders and the hidden toggle from settings.
func New(settings *Settings, logger *zap.Logger) *Model {
	return &Model{
		settings: settings,
		logger:   logging.OrNop(logger).Named("tree"),
	}
}

// ListChildren returns the children of parent. A nil parent is the root
// pseudo-node, whose children are the configured root folders. Listing
// failures yield an empty result.
func (m *Model) ListChildren(ctx context.Context, parent *model.Node) []model.Node {
	if parent == nil {
		return m.roots()
	}
	if !parent.IsDir || parent.Path == "" {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	return m.listDir(parent.Path)
}

func (m *Model) roots() []model.Node {
	folders := m.settings.Folders()
	roots := make([]model.Node, 0, len(folders))
	for _, folder := range folders {
		roots = append(roots, model.Node{
			Name:   folder,
			Path:   folder,
			IsDir:  true,
			IsRoot: true,
		})
	}

	c := newCollator()
	sort.SliceStable(roots, func(i, j int) bool {
		return c.CompareString(roots[i].Name, roots[j].Name) < 0
	})
	return roots
}

func (m *Model) listDir(dir string) []model.Node {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.logger.Debug("list failed", zap.String("path", dir), zap.Error(err))
		return []model.Node{}
	}

	showHidden := m.settings.ShowHidden()
	children := make([]model.Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		children = append(children, model.Node{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: entry.IsDir(),
		})
	}

	SortNodes(children)
	return children
}

// SortNodes orders siblings with directories first, then by name using
// case-aware collation.
func SortNodes(nodes []model.Node) {
	c := newCollator()
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
}

// Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}
