package tree

import (
	"slices"
	"sync"
)

// Settings is the shared, mutable view state: the ordered root folder list
// and the global show-hidden toggle. One coordinating component owns it and
// hands the same pointer to the tree model and the view adapter.
type Settings struct {
	mu         sync.RWMutex
	folders    []string
	showHidden bool
}

// NewSettings creates Settings seeded with folders and the hidden toggle.
func NewSettings(folders []string, showHidden bool) *Settings {
	return &Settings{
		folders:    slices.Clone(folders),
		showHidden: showHidden,
	}
}

// Folders returns a copy of the configured root folders, in configured order.
func (s *Settings) Folders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.folders)
}

// SetFolders replaces the root folder list.
func (s *Settings) SetFolders(folders []string) {
	s.mu.Lock()
	s.folders = slices.Clone(folders)
	s.mu.Unlock()
}

// ShowHidden reports whether dot-prefixed entries are listed.
func (s *Settings) ShowHidden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showHidden
}

// SetShowHidden sets the hidden toggle.
func (s *Settings) SetShowHidden(show bool) {
	s.mu.Lock()
	s.showHidden = show
	s.mu.Unlock()
}
