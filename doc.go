// Package playlake turns raw song-play event data into a star-schema data
// lake. It contains the interfaces and core transformations of the batch
// pipeline; the subpackages hold the pluggable edges.
//
// The pipeline has three kinds of moving parts:
//
// 1. Source
//
//    A playlake.Source yields raw records one at a time, each a decoded JSON
//    object. The data lives in different places - directory trees of
//    newline-delimited JSON on local disk (the file subpackage), objects in
//    an S3 bucket (aws/s3) - and the Source hides that behind one interface.
//    A Source does not interpret the data; coercion and validation happen in
//    the record decoders here, so the same decoding rules apply no matter
//    where a record came from.
//
// 2. Extractors and the fact builder
//
//    The core of the pipeline. SongExtractor projects and dedups the songs
//    and artists dimensions; ExtractUsers keeps a last-write-wins snapshot
//    per user; ExtractTime breaks distinct event timestamps down on the UTC
//    calendar; SongplayBuilder resolves each play against the song catalog
//    through a CatalogIndex and emits the fact table. All of them are pure
//    functions over immutable record slices, so a run on the same input
//    always produces the same tables.
//
// 3. TableWriter
//
//    A TableWriter persists the five materialized tables as partitioned
//    columnar datasets. The parquet subpackage writes hive-style partition
//    directories on local disk; aws/s3 stages the same layout and uploads it.
//
// The cmd subpackage wires these together into a CLI with file-to-file and
// S3-to-S3 modes.
package playlake
