package playlake

import "io"

// Source is the interface for getting raw records one at a time. Each record
// is a decoded JSON object. Implementations of Source should be thread safe
// and must return io.EOF once the record set is exhausted; any other error is
// treated as fatal by the pipeline.
type Source interface {
	Record() (map[string]interface{}, error)
}

// RawSource is the interface for getting a sequence of readers over raw data,
// such as the files under a directory tree or the objects in a bucket.
// NextReader returns io.EOF when there are no more readers. Implementations
// should hand out readers in a stable order so that downstream first-wins
// dedup rules are deterministic across runs.
type RawSource interface {
	NextReader() (NamedReadCloser, error)
}

// NamedReadCloser is an io.ReadCloser which knows where its data came from.
type NamedReadCloser interface {
	io.ReadCloser
	Name() string
}
