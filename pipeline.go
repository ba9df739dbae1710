package playlake

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Stat names surfaced by a pipeline run. Malformed and unresolved conditions
// are warnings; a run that only hits these still succeeds.
const (
	StatMalformedSongRecords = "malformed-song-records"
	StatMalformedLogRecords  = "malformed-log-records"
	StatUnresolvedSongplays  = "unresolved-songplays"
)

// Pipeline reads the two raw record sets, derives the five star-schema
// tables, and hands each to the table writer. Every run recomputes all
// tables from scratch; there is no incremental merge. A run either produces
// all five tables or fails - an error from a source or the writer aborts it.
type Pipeline struct {
	Songs  Source
	Logs   Source
	Writer TableWriter

	// Catalog backs the songplay join. Defaults to an in-memory MapCatalog.
	// The pipeline closes it when the run finishes.
	Catalog CatalogIndex

	// Concurrency is the number of record-decoding workers per record set.
	// Decoded sets are restored to source order before any transformation,
	// so results do not depend on this setting.
	Concurrency int

	// GeohashPrecision overrides the artist geohash length. Zero means
	// DefaultGeohashPrecision.
	GeohashPrecision uint

	Stats Statter
	Log   Logger
}

// Run executes one full batch run.
func (p *Pipeline) Run() error {
	if p.Songs == nil || p.Logs == nil || p.Writer == nil {
		return errors.New("pipeline needs song and log sources and a table writer")
	}
	start := time.Now()

	catalog := p.Catalog
	if catalog == nil {
		catalog = NewMapCatalog()
	}
	defer catalog.Close()

	songRecs, badSongs, err := p.readSongs()
	if err != nil {
		return errors.Wrap(err, "reading song records")
	}
	logRecs, badLogs, err := p.readLogs()
	if err != nil {
		return errors.Wrap(err, "reading log records")
	}

	ext := NewSongExtractor()
	if p.GeohashPrecision != 0 {
		ext.GeohashPrecision = p.GeohashPrecision
	}
	songs, artists := ext.Extract(songRecs)
	users := ExtractUsers(logRecs)
	times := ExtractTime(logRecs)

	builder := NewSongplayBuilder(catalog)
	if err := builder.IndexCatalog(songs, artists); err != nil {
		return errors.Wrap(err, "indexing catalog")
	}
	plays, err := builder.Build(logRecs)
	if err != nil {
		return errors.Wrap(err, "building songplays")
	}

	p.stats().Count(StatMalformedSongRecords, badSongs, 1)
	p.stats().Count(StatMalformedLogRecords, badLogs, 1)
	p.stats().Count(StatUnresolvedSongplays, builder.Unresolved, 1)

	tables := []*Table{
		SongsTable(songs),
		ArtistsTable(artists),
		UsersTable(users),
		TimeTable(times),
		SongplaysTable(plays),
	}
	for _, t := range tables {
		if err := p.Writer.WriteTable(t); err != nil {
			return errors.Wrapf(err, "writing %s table", t.Name)
		}
		p.logger().Debugf("wrote %s: %d rows", t.Name, len(t.Rows))
	}

	p.stats().Timing("run", time.Since(start), 1)
	p.logger().Printf("run complete in %v: %d songs, %d artists, %d users, %d time rows, %d songplays (warnings: %d malformed song records, %d malformed log records, %d unresolved songplays)",
		time.Since(start), len(songs), len(artists), len(users), len(times), len(plays),
		badSongs, badLogs, builder.Unresolved)
	return nil
}

func (p *Pipeline) readSongs() ([]SongRecord, int64, error) {
	type item struct {
		seq int
		rec SongRecord
	}
	var (
		mu        sync.Mutex
		items     []item
		malformed int64
	)
	err := forEachRecord(p.Songs, p.concurrency(), func(seq int, raw map[string]interface{}) {
		rec, err := DecodeSongRecord(raw)
		if err != nil {
			p.logger().Debugf("skipping song record %d: %v", seq, err)
			mu.Lock()
			malformed++
			mu.Unlock()
			return
		}
		mu.Lock()
		items = append(items, item{seq: seq, rec: rec})
		mu.Unlock()
	})
	if err != nil {
		return nil, malformed, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	recs := make([]SongRecord, len(items))
	for i, it := range items {
		recs[i] = it.rec
	}
	return recs, malformed, nil
}

func (p *Pipeline) readLogs() ([]LogRecord, int64, error) {
	type item struct {
		seq int
		rec LogRecord
	}
	var (
		mu        sync.Mutex
		items     []item
		malformed int64
	)
	err := forEachRecord(p.Logs, p.concurrency(), func(seq int, raw map[string]interface{}) {
		rec, err := DecodeLogRecord(raw)
		if err != nil {
			p.logger().Debugf("skipping log record %d: %v", seq, err)
			mu.Lock()
			malformed++
			mu.Unlock()
			return
		}
		mu.Lock()
		items = append(items, item{seq: seq, rec: rec})
		mu.Unlock()
	})
	if err != nil {
		return nil, malformed, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	recs := make([]LogRecord, len(items))
	for i, it := range items {
		recs[i] = it.rec
	}
	return recs, malformed, nil
}

// forEachRecord pulls every record from src, fanning decode work out to a
// pool of workers. fn must be safe for concurrent use. Records are tagged
// with their source sequence number so callers can restore input order.
func forEachRecord(src Source, workers int, fn func(seq int, rec map[string]interface{})) error {
	type job struct {
		seq int
		rec map[string]interface{}
	}
	jobs := make(chan job, workers)
	var readErr error
	go func() {
		defer close(jobs)
		for seq := 0; ; seq++ {
			rec, err := src.Record()
			if err != nil {
				readErr = err
				return
			}
			jobs <- job{seq: seq, rec: rec}
		}
	}()

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				fn(j.seq, j.rec)
			}
		}()
	}
	wg.Wait()
	if readErr != io.EOF {
		return readErr
	}
	return nil
}

func (p *Pipeline) concurrency() int {
	if p.Concurrency < 1 {
		return 1
	}
	return p.Concurrency
}

func (p *Pipeline) stats() Statter {
	if p.Stats == nil {
		return NopStatter{}
	}
	return p.Stats
}

func (p *Pipeline) logger() Logger {
	if p.Log == nil {
		return NopLogger{}
	}
	return p.Log
}
