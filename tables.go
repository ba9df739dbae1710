package playlake

import "strconv"

// Row is one output row. Partition returns the row's values for its table's
// partition columns, formatted for use in a hive-style directory name, or nil
// for rows of unpartitioned tables.
type Row interface {
	Partition() []string
}

// Table is one fully materialized output dataset of a pipeline run.
type Table struct {
	Name        string
	PartitionBy []string
	Proto       Row // zero value of the row type, for writers that need the schema before any row
	Rows        []Row
}

// TableWriter persists materialized tables as partitioned columnar datasets.
// Implementations are collaborators outside the transformation core; an error
// from WriteTable is fatal to the run.
type TableWriter interface {
	WriteTable(t *Table) error
}

// SongRow is one row of the songs dimension.
type SongRow struct {
	SongID   string  `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistID string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year     int32   `parquet:"name=year, type=INT32"`
	Duration float64 `parquet:"name=duration, type=DOUBLE"`
}

// Partition implements Row. Songs are partitioned by (year, artist_id).
func (r SongRow) Partition() []string {
	return []string{strconv.Itoa(int(r.Year)), r.ArtistID}
}

// ArtistRow is one row of the artists dimension. The geohash column is an
// enrichment derived from the coordinates; it is absent when the source
// record carried no usable latitude/longitude.
type ArtistRow struct {
	ArtistID  string   `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name      string   `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location  string   `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Latitude  *float64 `parquet:"name=latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude *float64 `parquet:"name=longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Geohash   *string  `parquet:"name=geohash, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

// Partition implements Row. Artists are unpartitioned.
func (r ArtistRow) Partition() []string { return nil }

// UserRow is one row of the users dimension.
type UserRow struct {
	UserID    string `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstName string `parquet:"name=first_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	LastName  string `parquet:"name=last_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender    string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Partition implements Row. Users are unpartitioned.
func (r UserRow) Partition() []string { return nil }

// TimeRow is the UTC calendar breakdown of one distinct event timestamp.
// Weekday is 1=Sunday through 7=Saturday.
type TimeRow struct {
	StartTime int64 `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Hour      int32 `parquet:"name=hour, type=INT32"`
	Day       int32 `parquet:"name=day, type=INT32"`
	Week      int32 `parquet:"name=week, type=INT32"`
	Month     int32 `parquet:"name=month, type=INT32"`
	Year      int32 `parquet:"name=year, type=INT32"`
	Weekday   int32 `parquet:"name=weekday, type=INT32"`
}

// Partition implements Row. Time is partitioned by (year, month).
func (r TimeRow) Partition() []string {
	return []string{strconv.Itoa(int(r.Year)), strconv.Itoa(int(r.Month))}
}

// SongplayRow is one row of the songplays fact table. SongID and ArtistID are
// nil when the event could not be matched against the song catalog. Year and
// Month are derived from StartTime for partitioning.
type SongplayRow struct {
	SongplayID int64   `parquet:"name=songplay_id, type=INT64"`
	StartTime  int64   `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	UserID     string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level      string  `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
	SongID     *string `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ArtistID   *string `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	SessionID  int64   `parquet:"name=session_id, type=INT64"`
	Location   string  `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserAgent  string  `parquet:"name=user_agent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year       int32   `parquet:"name=year, type=INT32"`
	Month      int32   `parquet:"name=month, type=INT32"`
}

// Partition implements Row. Songplays are partitioned by (year, month).
func (r SongplayRow) Partition() []string {
	return []string{strconv.Itoa(int(r.Year)), strconv.Itoa(int(r.Month))}
}

// SongsTable wraps song rows as a writable table.
func SongsTable(rows []SongRow) *Table {
	t := &Table{Name: "songs", PartitionBy: []string{"year", "artist_id"}, Proto: SongRow{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

// ArtistsTable wraps artist rows as a writable table.
func ArtistsTable(rows []ArtistRow) *Table {
	t := &Table{Name: "artists", Proto: ArtistRow{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

// UsersTable wraps user rows as a writable table.
func UsersTable(rows []UserRow) *Table {
	t := &Table{Name: "users", Proto: UserRow{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

// TimeTable wraps time rows as a writable table.
func TimeTable(rows []TimeRow) *Table {
	t := &Table{Name: "time", PartitionBy: []string{"year", "month"}, Proto: TimeRow{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

// SongplaysTable wraps songplay rows as a writable table.
func SongplaysTable(rows []SongplayRow) *Table {
	t := &Table{Name: "songplays", PartitionBy: []string{"year", "month"}, Proto: SongplayRow{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}
