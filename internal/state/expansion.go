// Package state keeps the set of expanded tree nodes and persists it.
package state

import (
	"slices"
	"sync"

	"foldertree/internal/logging"

	"go.uber.org/zap"
)

// Expansion is an insertion-ordered set of expanded node identifiers.
// Keys are opaque: nothing checks that an identifier still names an existing
// directory, and entries orphaned by a rename or delete simply never match.
type Expansion struct {
	// saveMu orders whole marks, so snapshots reach the persister in the
	// order they were taken.
	saveMu    sync.Mutex
	mu        sync.RWMutex
	ids       []string
	members   map[string]struct{}
	persister Persister
	logger    *zap.Logger
}

// NewExpansion creates an empty, unpersisted store.
func NewExpansion() *Expansion {
	return &Expansion{members: make(map[string]struct{})}
}

// Open creates a store seeded from persister. Every membership change is
// snapshotted back into it. A stored list that cannot be read is logged and
// treated as empty; the next change overwrites it.
func Open(persister Persister, logger *zap.Logger) *Expansion {
	store := NewExpansion()
	store.logger = logging.OrNop(logger).Named("expansion")
	if persister == nil {
		return store
	}

	ids, err := persister.Load()
	if err != nil {
		store.logger.Warn("load expansion state failed", zap.Error(err))
	} else {
		store.Seed(ids)
	}
	store.persister = persister
	return store
}

// IsExpanded reports whether id is marked expanded.
func (e *Expansion) IsExpanded(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.members[id]
	return ok
}

// MarkExpanded adds id to the set.
func (e *Expansion) MarkExpanded(id string) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if _, ok := e.members[id]; ok {
		e.mu.Unlock()
		return
	}
	e.members[id] = struct{}{}
	e.ids = append(e.ids, id)
	snapshot := slices.Clone(e.ids)
	e.mu.Unlock()

	e.save(snapshot)
}

// MarkCollapsed removes id from the set.
func (e *Expansion) MarkCollapsed(id string) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if _, ok := e.members[id]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.members, id)
	e.ids = slices.DeleteFunc(e.ids, func(existing string) bool { return existing == id })
	snapshot := slices.Clone(e.ids)
	e.mu.Unlock()

	e.save(snapshot)
}

// Seed replaces the contents with ids, keeping first occurrences only.
func (e *Expansion) Seed(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = make([]string, 0, len(ids))
	e.members = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := e.members[id]; ok {
			continue
		}
		e.members[id] = struct{}{}
		e.ids = append(e.ids, id)
	}
}

// Snapshot returns the identifiers in insertion order.
func (e *Expansion) Snapshot() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.ids)
}

// Len returns the number of expanded identifiers.
func (e *Expansion) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.ids)
}

// Close closes the underlying persister, if any.
func (e *Expansion) Close() error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	persister := e.persister
	e.persister = nil
	e.mu.Unlock()
	if persister == nil {
		return nil
	}
	return persister.Close()
}

func (e *Expansion) save(ids []string) {
	e.mu.RLock()
	persister := e.persister
	e.mu.RUnlock()
	if persister == nil {
		return
	}
	if err := persister.Save(ids); err != nil {
		e.logger.Warn("persist expansion state failed", zap.Int("count", len(ids)), zap.Error(err))
	}
}
