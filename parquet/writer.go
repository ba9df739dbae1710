// Package parquet persists playlake tables as partitioned parquet datasets on
// the local filesystem, one hive-style directory per partition
// (songs/year=2008/artist_id=AR1C2IX1187B99BF74/part-00000.parquet).
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/playlake/playlake"
	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// RowGroupWriters is the parallelism handed to the underlying parquet writer
// for each file.
const RowGroupWriters = 4

// Writer is a playlake.TableWriter writing parquet files under Path.
type Writer struct {
	Path string
}

// NewWriter returns a Writer rooted at path.
func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// WriteTable implements playlake.TableWriter. Partitions are written in
// sorted partition-path order; an unpartitioned table becomes a single file
// directly under the table directory. An empty unpartitioned table still
// produces a file so the schema exists on disk.
func (w *Writer) WriteTable(t *playlake.Table) error {
	groups, paths := partitionRows(t)
	if len(paths) == 0 && len(t.PartitionBy) == 0 {
		paths = append(paths, "")
		groups[""] = nil
	}
	for _, p := range paths {
		dir := filepath.Join(w.Path, t.Name, p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating partition dir %s", dir)
		}
		if err := writeFile(filepath.Join(dir, "part-00000.parquet"), t.Proto, groups[p]); err != nil {
			return errors.Wrapf(err, "writing partition %s of %s", p, t.Name)
		}
	}
	return nil
}

// partitionRows groups a table's rows by their hive-style partition path,
// preserving row order within each group, and returns the sorted set of
// paths.
func partitionRows(t *playlake.Table) (map[string][]playlake.Row, []string) {
	groups := make(map[string][]playlake.Row)
	for _, r := range t.Rows {
		p := partitionPath(t.PartitionBy, r.Partition())
		groups[p] = append(groups[p], r)
	}
	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return groups, paths
}

func partitionPath(cols, vals []string) string {
	p := ""
	for i, col := range cols {
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		p = filepath.Join(p, fmt.Sprintf("%s=%s", col, val))
	}
	return p
}

func writeFile(path string, proto playlake.Row, rows []playlake.Row) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrap(err, "creating file writer")
	}
	pw, err := writer.NewParquetWriter(fw, newProto(proto), RowGroupWriters)
	if err != nil {
		fw.Close()
		return errors.Wrap(err, "creating parquet writer")
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			pw.WriteStop()
			fw.Close()
			return errors.Wrap(err, "writing row")
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return errors.Wrap(err, "finalizing parquet file")
	}
	return errors.Wrap(fw.Close(), "closing file writer")
}

// newProto returns a pointer to a fresh zero value of the row's concrete
// type, which is what the parquet writer wants for schema discovery.
func newProto(proto playlake.Row) interface{} {
	return reflect.New(reflect.TypeOf(proto)).Interface()
}
