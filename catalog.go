package playlake

import (
	"sync"
)

// SongKey identifies a catalog entry for the songplay join: exact,
// case-sensitive title and artist name, exact duration. Metadata drift
// between the logs and the catalog (case differences, re-encoded durations)
// deliberately produces an unresolved reference rather than a fuzzy match.
type SongKey struct {
	Title    string
	Artist   string
	Duration float64
}

// CatalogRef is the pair of dimension keys a songplay resolves to.
type CatalogRef struct {
	SongID   string
	ArtistID string
}

// CatalogIndex maps SongKeys to CatalogRefs. Implementations must be
// first-write-wins: Add for a key that is already present is a no-op, so the
// earliest entry in input order survives duplicate catalog records.
// Implementations should be threadsafe.
type CatalogIndex interface {
	Add(key SongKey, ref CatalogRef) error
	Lookup(key SongKey) (CatalogRef, bool, error)
	Close() error
}

// MapCatalog is an in-memory CatalogIndex. It is the default; the boltdb
// subpackage has a disk-backed implementation for catalogs that don't fit in
// memory.
type MapCatalog struct {
	lock sync.RWMutex
	refs map[SongKey]CatalogRef
}

// NewMapCatalog creates an empty MapCatalog.
func NewMapCatalog() *MapCatalog {
	return &MapCatalog{
		refs: make(map[SongKey]CatalogRef),
	}
}

// Add implements CatalogIndex.
func (m *MapCatalog) Add(key SongKey, ref CatalogRef) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.refs[key]; ok {
		return nil
	}
	m.refs[key] = ref
	return nil
}

// Lookup implements CatalogIndex.
func (m *MapCatalog) Lookup(key SongKey) (CatalogRef, bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	ref, ok := m.refs[key]
	return ref, ok, nil
}

// Close implements CatalogIndex.
func (m *MapCatalog) Close() error {
	m.refs = nil
	return nil
}
