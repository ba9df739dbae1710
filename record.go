package playlake

import (
	"strconv"

	"github.com/pkg/errors"
)

// PageNextSong is the action value marking a song-play event in the activity
// logs. Records with any other action are ignored by the dimension and fact
// derivations that only consider plays.
const PageNextSong = "NextSong"

// SongRecord is one raw song/artist metadata record.
type SongRecord struct {
	SongID    string
	Title     string
	ArtistID  string
	Artist    string
	Location  string
	Latitude  *float64
	Longitude *float64
	Duration  float64
	Year      int32
}

// LogRecord is one raw user-activity event.
type LogRecord struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Page      string
	TS        int64 // epoch milliseconds, UTC
	Song      string
	Artist    string
	Length    float64
	SessionID int64
	Location  string
	UserAgent string
}

// IsPlay reports whether the record is a song-play event.
func (l LogRecord) IsPlay() bool { return l.Page == PageNextSong }

// DecodeSongRecord converts a raw JSON object into a SongRecord. A record
// with an empty song_id or artist_id, or a non-positive duration, is
// malformed and returns an error; the caller skips and counts it.
func DecodeSongRecord(rec map[string]interface{}) (SongRecord, error) {
	sr := SongRecord{
		SongID:    stringAt(rec, "song_id"),
		Title:     stringAt(rec, "title"),
		ArtistID:  stringAt(rec, "artist_id"),
		Artist:    stringAt(rec, "artist_name"),
		Location:  stringAt(rec, "artist_location"),
		Latitude:  floatPtrAt(rec, "artist_latitude"),
		Longitude: floatPtrAt(rec, "artist_longitude"),
		Duration:  floatAt(rec, "duration"),
		Year:      int32(intAt(rec, "year")),
	}
	if sr.SongID == "" {
		return sr, errors.New("song record missing song_id")
	}
	if sr.ArtistID == "" {
		return sr, errors.New("song record missing artist_id")
	}
	if sr.Duration <= 0 {
		return sr, errors.Errorf("song record %s has non-positive duration", sr.SongID)
	}
	return sr, nil
}

// DecodeLogRecord converts a raw JSON object into a LogRecord. Only a valid
// timestamp is required up front; anonymous events with a blank userId are
// legitimate input and are filtered later by the derivations that need a
// user.
func DecodeLogRecord(rec map[string]interface{}) (LogRecord, error) {
	lr := LogRecord{
		UserID:    stringAt(rec, "userId"),
		FirstName: stringAt(rec, "firstName"),
		LastName:  stringAt(rec, "lastName"),
		Gender:    stringAt(rec, "gender"),
		Level:     stringAt(rec, "level"),
		Page:      stringAt(rec, "page"),
		TS:        intAt(rec, "ts"),
		Song:      stringAt(rec, "song"),
		Artist:    stringAt(rec, "artist"),
		Length:    floatAt(rec, "length"),
		SessionID: intAt(rec, "sessionId"),
		Location:  stringAt(rec, "location"),
		UserAgent: stringAt(rec, "userAgent"),
	}
	if lr.TS <= 0 {
		return lr, errors.New("log record missing ts")
	}
	return lr, nil
}

// The raw data is not consistent about scalar types - userId in particular
// shows up both as a JSON number and as a string - so field access coerces
// between the two rather than type-asserting.

func stringAt(rec map[string]interface{}, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func floatAt(rec map[string]interface{}, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func floatPtrAt(rec map[string]interface{}, key string) *float64 {
	if _, ok := rec[key]; !ok {
		return nil
	}
	if rec[key] == nil {
		return nil
	}
	f := floatAt(rec, key)
	return &f
}

func intAt(rec map[string]interface{}, key string) int64 {
	switch v := rec[key].(type) {
	case float64:
		return int64(v)
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return 0
}
