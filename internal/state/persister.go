package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	leveldb_errors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// ExpandedIDsKey is the key the expanded identifier list is stored under.
const ExpandedIDsKey = "foldertree.expandedIds"

// Persister is the durable key/value slot the expansion set is seeded from
// and snapshotted into.
type Persister interface {
	Load() ([]string, error)
	Save(ids []string) error
	Close() error
}

// LevelDBPersister stores the identifier list as a JSON array in a leveldb
// database.
type LevelDBPersister struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) the database in dir.
func OpenLevelDB(dir string) (*LevelDBPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", dir, err)
	}
	opts := &opt.Options{
		BlockCacheCapacity: 1024 * 1024,
		WriteBuffer:        256 * 1024,
	}
	db, err := leveldb.OpenFile(dir, opts)
	if leveldb_errors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(dir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open state db %s: %w", dir, err)
	}
	return &LevelDBPersister{db: db}, nil
}

// Load returns the stored list, or nil when nothing was saved yet.
func (p *LevelDBPersister) Load() ([]string, error) {
	data, err := p.db.Get([]byte(ExpandedIDsKey), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read expanded ids: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode expanded ids: %w", err)
	}
	return ids, nil
}

// Save overwrites the stored list.
func (p *LevelDBPersister) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode expanded ids: %w", err)
	}
	if err := p.db.Put([]byte(ExpandedIDsKey), data, nil); err != nil {
		return fmt.Errorf("write expanded ids: %w", err)
	}
	return nil
}

// Close releases the database.
func (p *LevelDBPersister) Close() error {
	return p.db.Close()
}

// MemoryPersister keeps the list in memory.
type MemoryPersister struct {
	mu    sync.Mutex
	ids   []string
	saves int
}

// NewMemoryPersister creates a MemoryPersister holding ids.
func NewMemoryPersister(ids ...string) *MemoryPersister {
	return &MemoryPersister{ids: ids}
}

func (p *MemoryPersister) Load() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.ids), nil
}

func (p *MemoryPersister) Save(ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = slices.Clone(ids)
	p.saves++
	return nil
}

func (p *MemoryPersister) Close() error { return nil }

// Saves reports how many times Save was called.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
