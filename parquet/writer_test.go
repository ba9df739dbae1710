package parquet

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/playlake/playlake"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func testDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "parquetwriter")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func readSongs(t *testing.T, path string) []playlake.SongRow {
	t.Helper()
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(playlake.SongRow), RowGroupWriters)
	if err != nil {
		t.Fatalf("creating reader for %s: %v", path, err)
	}
	defer pr.ReadStop()
	rows := make([]playlake.SongRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestWriteTablePartitioned(t *testing.T) {
	dir := testDir(t)
	table := playlake.SongsTable([]playlake.SongRow{
		{SongID: "S1", Title: "One", ArtistID: "A1", Year: 2000, Duration: 100.5},
		{SongID: "S2", Title: "Two", ArtistID: "A1", Year: 2010, Duration: 200.25},
		{SongID: "S3", Title: "Three", ArtistID: "A2", Year: 2000, Duration: 300},
	})
	if err := NewWriter(dir).WriteTable(table); err != nil {
		t.Fatalf("writing table: %v", err)
	}

	want := map[string][]playlake.SongRow{
		filepath.Join("year=2000", "artist_id=A1"): {{SongID: "S1", Title: "One", ArtistID: "A1", Year: 2000, Duration: 100.5}},
		filepath.Join("year=2000", "artist_id=A2"): {{SongID: "S3", Title: "Three", ArtistID: "A2", Year: 2000, Duration: 300}},
		filepath.Join("year=2010", "artist_id=A1"): {{SongID: "S2", Title: "Two", ArtistID: "A1", Year: 2010, Duration: 200.25}},
	}
	for part, rows := range want {
		path := filepath.Join(dir, "songs", part, "part-00000.parquet")
		got := readSongs(t, path)
		if !reflect.DeepEqual(got, rows) {
			t.Fatalf("partition %s: got %#v, want %#v", part, got, rows)
		}
	}
}

func TestWriteTableUnpartitioned(t *testing.T) {
	dir := testDir(t)
	table := playlake.UsersTable([]playlake.UserRow{
		{UserID: "U1", FirstName: "F", LastName: "L", Gender: "F", Level: "paid"},
	})
	if err := NewWriter(dir).WriteTable(table); err != nil {
		t.Fatalf("writing table: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "users", "part-00000.parquet")); err != nil {
		t.Fatalf("expected a single file under the table dir: %v", err)
	}
}

func TestWriteTableEmptyUnpartitioned(t *testing.T) {
	dir := testDir(t)
	if err := NewWriter(dir).WriteTable(playlake.ArtistsTable(nil)); err != nil {
		t.Fatalf("writing empty table: %v", err)
	}
	// The schema still lands on disk even with no rows.
	if _, err := os.Stat(filepath.Join(dir, "artists", "part-00000.parquet")); err != nil {
		t.Fatalf("expected a schema-only file: %v", err)
	}
}

func TestWriteTableOptionalColumns(t *testing.T) {
	dir := testDir(t)
	gh := "9q8yyk8ytpxr"
	lat, lon := 37.77, -122.42
	table := playlake.ArtistsTable([]playlake.ArtistRow{
		{ArtistID: "A1", Name: "Located", Location: "SF", Latitude: &lat, Longitude: &lon, Geohash: &gh},
		{ArtistID: "A2", Name: "Nowhere"},
	})
	if err := NewWriter(dir).WriteTable(table); err != nil {
		t.Fatalf("writing table: %v", err)
	}

	path := filepath.Join(dir, "artists", "part-00000.parquet")
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(playlake.ArtistRow), RowGroupWriters)
	if err != nil {
		t.Fatalf("creating reader: %v", err)
	}
	defer pr.ReadStop()
	rows := make([]playlake.ArtistRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %#v", rows)
	}
	if rows[0].Geohash == nil || *rows[0].Geohash != gh {
		t.Fatalf("expected geohash round trip: %#v", rows[0])
	}
	if rows[1].Geohash != nil || rows[1].Latitude != nil {
		t.Fatalf("expected nulls for missing coordinates: %#v", rows[1])
	}
}

func TestPartitionPath(t *testing.T) {
	got := partitionPath([]string{"year", "month"}, []string{"2018", "11"})
	if got != filepath.Join("year=2018", "month=11") {
		t.Fatalf("unexpected partition path: %q", got)
	}
	if got := partitionPath(nil, nil); got != "" {
		t.Fatalf("unpartitioned rows must map to the table root: %q", got)
	}
}
