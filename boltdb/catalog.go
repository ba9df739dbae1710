// Package boltdb provides a disk-backed playlake.CatalogIndex for song
// catalogs too large to hold in memory during the songplay join.
package boltdb

import (
	"bytes"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
	"github.com/playlake/playlake"
	"github.com/pkg/errors"
)

var catalogBucket = []byte("catalog")

// sep never appears in ids, titles, or artist names coming out of the json
// decoder, so it is safe as a field delimiter inside keys and values.
const sep = "\x00"

// Catalog is a playlake.CatalogIndex backed by a single bolt database file.
type Catalog struct {
	db *bolt.DB
}

// NewCatalog opens (creating if necessary) a catalog index at the given file
// path.
func NewCatalog(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt db at %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(catalogBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensuring bucket existence")
	}
	return &Catalog{db: db}, nil
}

// Add implements playlake.CatalogIndex. The first ref stored for a key wins;
// later adds for the same key are no-ops.
func (c *Catalog) Add(key playlake.SongKey, ref playlake.CatalogRef) error {
	k := encodeKey(key)
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(catalogBucket)
		if b.Get(k) != nil {
			return nil
		}
		return b.Put(k, encodeRef(ref))
	})
	return errors.Wrap(err, "adding catalog entry")
}

// Lookup implements playlake.CatalogIndex.
func (c *Catalog) Lookup(key playlake.SongKey) (playlake.CatalogRef, bool, error) {
	var (
		ref   playlake.CatalogRef
		found bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(catalogBucket).Get(encodeKey(key))
		if v == nil {
			return nil
		}
		found = true
		var err error
		ref, err = decodeRef(v)
		return err
	})
	if err != nil {
		return ref, false, errors.Wrap(err, "looking up catalog entry")
	}
	return ref, found, nil
}

// Close closes the underlying bolt database.
func (c *Catalog) Close() error {
	return errors.Wrap(c.db.Close(), "closing bolt db")
}

func encodeKey(key playlake.SongKey) []byte {
	// 'g' formatting round-trips float64 exactly, so equal durations always
	// encode to the same key and nothing else does.
	dur := strconv.FormatFloat(key.Duration, 'g', -1, 64)
	return []byte(key.Title + sep + key.Artist + sep + dur)
}

func encodeRef(ref playlake.CatalogRef) []byte {
	return []byte(ref.SongID + sep + ref.ArtistID)
}

func decodeRef(v []byte) (playlake.CatalogRef, error) {
	parts := bytes.SplitN(v, []byte(sep), 2)
	if len(parts) != 2 {
		return playlake.CatalogRef{}, errors.Errorf("malformed catalog value %q", v)
	}
	return playlake.CatalogRef{SongID: string(parts[0]), ArtistID: string(parts[1])}, nil
}
