package playlake

import (
	"testing"
)

func TestMapCatalogFirstWriteWins(t *testing.T) {
	c := NewMapCatalog()
	key := SongKey{Title: "T", Artist: "A", Duration: 1.5}
	if err := c.Add(key, CatalogRef{SongID: "S1", ArtistID: "A1"}); err != nil {
		t.Fatalf("adding: %v", err)
	}
	if err := c.Add(key, CatalogRef{SongID: "S2", ArtistID: "A2"}); err != nil {
		t.Fatalf("re-adding: %v", err)
	}
	ref, ok, err := c.Lookup(key)
	if err != nil {
		t.Fatalf("looking up: %v", err)
	}
	if !ok || ref.SongID != "S1" || ref.ArtistID != "A1" {
		t.Fatalf("first add must win: %#v ok=%v", ref, ok)
	}
}

func TestMapCatalogMiss(t *testing.T) {
	c := NewMapCatalog()
	_, ok, err := c.Lookup(SongKey{Title: "nope"})
	if err != nil {
		t.Fatalf("looking up: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}
}

func TestMapCatalogExactDuration(t *testing.T) {
	c := NewMapCatalog()
	if err := c.Add(SongKey{Title: "T", Artist: "A", Duration: 200.0}, CatalogRef{SongID: "S1"}); err != nil {
		t.Fatalf("adding: %v", err)
	}
	if _, ok, _ := c.Lookup(SongKey{Title: "T", Artist: "A", Duration: 200.0001}); ok {
		t.Fatalf("duration match must be exact, no tolerance")
	}
}
