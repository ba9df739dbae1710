package s3

import (
	"log"
	"os"

	"github.com/playlake/playlake"
	"github.com/playlake/playlake/boltdb"
	"github.com/playlake/playlake/termstat"
	"github.com/pkg/errors"
)

// Main contains the configuration for an S3-to-S3 run.
type Main struct {
	Region       string `help:"AWS region to use."`
	Bucket       string `help:"S3 bucket holding the raw record sets."`
	SongPrefix   string `help:"Key prefix of the song metadata objects."`
	LogPrefix    string `help:"Key prefix of the user activity log objects."`
	OutputBucket string `help:"S3 bucket to write the parquet datasets to."`
	OutputPrefix string `help:"Key prefix for the written datasets."`
	CatalogIndex string `help:"Path for a disk-backed catalog index file. Blank keeps the index in memory."`
	Concurrency  int    `help:"Number of concurrent record decoders per record set."`
	Geohash      uint   `help:"Artist geohash precision in characters."`
	BufSize      int    `help:"Number of records to buffer between S3 and the decoders."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Region:      "us-east-1",
		SongPrefix:  "song_data/",
		LogPrefix:   "log_data/",
		Concurrency: 1,
		Geohash:     playlake.DefaultGeohashPrecision,
		BufSize:     1000,
	}
}

// Run runs the pipeline.
func (m *Main) Run() error {
	songs, err := NewSource(m.Region, m.Bucket, m.SongPrefix, OptSrcBufSize(m.BufSize))
	if err != nil {
		return errors.Wrap(err, "getting song source")
	}
	logs, err := NewSource(m.Region, m.Bucket, m.LogPrefix, OptSrcBufSize(m.BufSize))
	if err != nil {
		return errors.Wrap(err, "getting log source")
	}
	writer, err := NewTableWriter(m.Region, m.OutputBucket, m.OutputPrefix)
	if err != nil {
		return errors.Wrap(err, "getting table writer")
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
		Writer:           writer,
		Catalog:          catalog,
		Concurrency:      m.Concurrency,
		GeohashPrecision: m.Geohash,
		Stats:            termstat.NewCollector(os.Stderr),
		Log:              playlake.StdLogger{Logger: log.New(os.Stderr, "", log.LstdFlags)},
	}
	return errors.Wrap(pipeline.Run(), "running pipeline")
}
