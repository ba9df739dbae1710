package playlake

import (
	"reflect"
	"testing"
)

func fptr(f float64) *float64 { return &f }

func TestSongExtractorDedup(t *testing.T) {
	recs := []SongRecord{
		{SongID: "S2", Title: "Second", ArtistID: "A1", Artist: "Artist One", Duration: 100, Year: 1999},
		{SongID: "S1", Title: "First", ArtistID: "A2", Artist: "Artist Two", Duration: 200, Year: 2000},
		{SongID: "S2", Title: "Conflicting Title", ArtistID: "A1", Artist: "Conflicting Name", Duration: 101, Year: 1998},
		{SongID: "S1", Title: "First", ArtistID: "A2", Artist: "Artist Two", Duration: 200, Year: 2000},
	}
	songs, artists := NewSongExtractor().Extract(recs)

	wantSongs := []SongRow{
		{SongID: "S1", Title: "First", ArtistID: "A2", Year: 2000, Duration: 200},
		{SongID: "S2", Title: "Second", ArtistID: "A1", Year: 1999, Duration: 100},
	}
	if !reflect.DeepEqual(songs, wantSongs) {
		t.Fatalf("unexpected songs: %#v", songs)
	}

	if len(artists) != 2 {
		t.Fatalf("expected 2 artists, got %#v", artists)
	}
	// first-encountered attributes win for a duplicated artist_id
	if artists[0].ArtistID != "A1" || artists[0].Name != "Artist One" {
		t.Fatalf("unexpected artist: %#v", artists[0])
	}
	if artists[1].ArtistID != "A2" || artists[1].Name != "Artist Two" {
		t.Fatalf("unexpected artist: %#v", artists[1])
	}
}

func TestSongExtractorGeohash(t *testing.T) {
	recs := []SongRecord{
		{SongID: "S1", ArtistID: "A1", Artist: "Located", Duration: 1,
			Latitude: fptr(35.14968), Longitude: fptr(-90.04892)},
		{SongID: "S2", ArtistID: "A2", Artist: "Unlocated", Duration: 1},
	}
	_, artists := NewSongExtractor().Extract(recs)
	if artists[0].Geohash == nil {
		t.Fatalf("expected geohash for artist with coordinates")
	}
	if len(*artists[0].Geohash) != DefaultGeohashPrecision {
		t.Fatalf("expected %d geohash chars, got %q", DefaultGeohashPrecision, *artists[0].Geohash)
	}
	if artists[1].Geohash != nil {
		t.Fatalf("expected no geohash without coordinates, got %q", *artists[1].Geohash)
	}
}

func TestSongExtractorGeohashDisabled(t *testing.T) {
	ext := &SongExtractor{}
	_, artists := ext.Extract([]SongRecord{
		{SongID: "S1", ArtistID: "A1", Duration: 1, Latitude: fptr(1), Longitude: fptr(2)},
	})
	if artists[0].Geohash != nil {
		t.Fatalf("expected geohash disabled at precision 0")
	}
}

func TestSongExtractorDeterministic(t *testing.T) {
	recs := []SongRecord{
		{SongID: "S1", Title: "One", ArtistID: "A1", Artist: "N1", Duration: 1},
		{SongID: "S1", Title: "Two", ArtistID: "A1", Artist: "N2", Duration: 2},
	}
	s1, a1 := NewSongExtractor().Extract(recs)
	s2, a2 := NewSongExtractor().Extract(recs)
	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(a1, a2) {
		t.Fatalf("extraction must be deterministic")
	}
	if s1[0].Title != "One" {
		t.Fatalf("first-encountered title must win, got %q", s1[0].Title)
	}
}
