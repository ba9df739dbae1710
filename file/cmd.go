package file

import (
	"log"
	"os"

	"github.com/playlake/playlake"
	"github.com/playlake/playlake/boltdb"
	"github.com/playlake/playlake/parquet"
	"github.com/playlake/playlake/termstat"
	"github.com/pkg/errors"
)

// Main contains the configuration for a local filesystem run: json record
// sets in, parquet star schema out.
type Main struct {
	SongData     string `help:"File or directory tree containing song metadata json."`
	LogData      string `help:"File or directory tree containing user activity log json."`
	Output       string `help:"Directory to write the partitioned parquet datasets."`
	CatalogIndex string `help:"Path for a disk-backed catalog index file. Blank keeps the index in memory."`
	Concurrency  int    `help:"Number of concurrent record decoders per record set."`
	Geohash      uint   `help:"Artist geohash precision in characters."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		SongData:    "song_data",
		LogData:     "log_data",
		Output:      "output",
		Concurrency: 1,
		Geohash:     playlake.DefaultGeohashPrecision,
	}
}

// Run runs the pipeline.
func (m *Main) Run() error {
	songs, err := NewSource(m.SongData)
	if err != nil {
		return errors.Wrap(err, "getting song source")
	}
	logs, err := NewSource(m.LogData)
	if err != nil {
		return errors.Wrap(err, "getting log source")
	}

	var catalog playlake.CatalogIndex
	if m.CatalogIndex != "" {
		catalog, err = boltdb.NewCatalog(m.CatalogIndex)
		if err != nil {
			return errors.Wrap(err, "opening catalog index")
		}
	}

	pipeline := &playlake.Pipeline{
		Songs:            songs,
		Logs:             logs,
		Writer:           parquet.NewWriter(m.Output),
		Catalog:          catalog,
		Concurrency:      m.Concurrency,
		GeohashPrecision: m.Geohash,
		Stats:            termstat.NewCollector(os.Stderr),
		Log:              playlake.StdLogger{Logger: log.New(os.Stderr, "", log.LstdFlags)},
	}
	return errors.Wrap(pipeline.Run(), "running pipeline")
}
