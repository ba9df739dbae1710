package playlake

import (
	"github.com/pkg/errors"
)

// SongplayBuilder derives the songplays fact table by resolving each
// song-play event against the song catalog.
type SongplayBuilder struct {
	catalog CatalogIndex
	nexter  *Nexter

	// Unresolved counts the events that could not be matched to a catalog
	// entry during the last Build.
	Unresolved int64
}

// NewSongplayBuilder returns a builder resolving against the given catalog
// index.
func NewSongplayBuilder(catalog CatalogIndex) *SongplayBuilder {
	return &SongplayBuilder{
		catalog: catalog,
		nexter:  NewNexter(),
	}
}

// IndexCatalog loads the joined songs-artists view into the catalog index.
// The artist name for each song comes from the artists dimension; both tables
// derive from the same records, so every song's artist is present. Duplicate
// keys keep their first entry.
func (b *SongplayBuilder) IndexCatalog(songs []SongRow, artists []ArtistRow) error {
	names := make(map[string]string, len(artists))
	for _, a := range artists {
		names[a.ArtistID] = a.Name
	}
	for _, s := range songs {
		name, ok := names[s.ArtistID]
		if !ok {
			continue
		}
		key := SongKey{Title: s.Title, Artist: name, Duration: s.Duration}
		if err := b.catalog.Add(key, CatalogRef{SongID: s.SongID, ArtistID: s.ArtistID}); err != nil {
			return errors.Wrapf(err, "indexing song %s", s.SongID)
		}
	}
	return nil
}

// Build produces one fact row per song-play event, in input order. Events
// that don't match any catalog entry keep null song/artist references - an
// unresolved play is still useful for session and user analysis. Surrogate
// songplay IDs are assigned monotonically in output order and carry no
// meaning beyond this run.
func (b *SongplayBuilder) Build(logs []LogRecord) ([]SongplayRow, error) {
	var rows []SongplayRow
	for _, lr := range logs {
		if !lr.IsPlay() {
			continue
		}
		row := SongplayRow{
			SongplayID: int64(b.nexter.Next()),
			StartTime:  lr.TS,
			UserID:     lr.UserID,
			Level:      lr.Level,
			SessionID:  lr.SessionID,
			Location:   lr.Location,
			UserAgent:  lr.UserAgent,
		}
		bd := BreakdownTS(lr.TS)
		row.Year, row.Month = bd.Year, bd.Month

		ref, ok, err := b.catalog.Lookup(SongKey{Title: lr.Song, Artist: lr.Artist, Duration: lr.Length})
		if err != nil {
			return nil, errors.Wrap(err, "catalog lookup")
		}
		if ok {
			songID, artistID := ref.SongID, ref.ArtistID
			row.SongID, row.ArtistID = &songID, &artistID
		} else {
			b.Unresolved++
		}
		rows = append(rows, row)
	}
	return rows, nil
}
