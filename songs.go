package playlake

import (
	"sort"

	"github.com/mmcloughlin/geohash"
)

// DefaultGeohashPrecision is the number of geohash characters in the derived
// artist geohash column.
const DefaultGeohashPrecision = 12

// SongExtractor derives the songs and artists dimensions from the raw song
// metadata records.
type SongExtractor struct {
	// GeohashPrecision is the length of the geohash computed from artist
	// coordinates. Zero disables the enrichment entirely.
	GeohashPrecision uint
}

// NewSongExtractor returns a SongExtractor with the default configuration.
func NewSongExtractor() *SongExtractor {
	return &SongExtractor{GeohashPrecision: DefaultGeohashPrecision}
}

// Extract projects the song and artist fields out of each record and
// deduplicates by primary key. When a key appears with conflicting attributes
// across records, the first-encountered values win; input order decides, so
// the result is deterministic for a given record sequence. Returned slices
// are sorted by primary key.
func (e *SongExtractor) Extract(recs []SongRecord) (songs []SongRow, artists []ArtistRow) {
	seenSong := make(map[string]struct{})
	seenArtist := make(map[string]struct{})
	for _, rec := range recs {
		if _, ok := seenSong[rec.SongID]; !ok {
			seenSong[rec.SongID] = struct{}{}
			songs = append(songs, SongRow{
				SongID:   rec.SongID,
				Title:    rec.Title,
				ArtistID: rec.ArtistID,
				Year:     rec.Year,
				Duration: rec.Duration,
			})
		}
		if _, ok := seenArtist[rec.ArtistID]; !ok {
			seenArtist[rec.ArtistID] = struct{}{}
			artists = append(artists, ArtistRow{
				ArtistID:  rec.ArtistID,
				Name:      rec.Artist,
				Location:  rec.Location,
				Latitude:  rec.Latitude,
				Longitude: rec.Longitude,
				Geohash:   e.artistGeohash(rec),
			})
		}
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].SongID < songs[j].SongID })
	sort.Slice(artists, func(i, j int) bool { return artists[i].ArtistID < artists[j].ArtistID })
	return songs, artists
}

func (e *SongExtractor) artistGeohash(rec SongRecord) *string {
	if e.GeohashPrecision == 0 || rec.Latitude == nil || rec.Longitude == nil {
		return nil
	}
	hsh := geohash.EncodeWithPrecision(*rec.Latitude, *rec.Longitude, e.GeohashPrecision)
	return &hsh
}
