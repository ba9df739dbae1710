package file

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/playlake/playlake"
	"github.com/playlake/playlake/json"
	"github.com/pkg/errors"
)

// Source is a playlake.Source which reads newline-delimited json objects from
// a file or from every file under a directory tree. Raw datasets are laid out
// as nested partition directories (logs by year/month, songs by id prefix),
// so the walk recurses.
type Source struct {
	rawSource *RawSource
	records   chan record
}

// NewSource gets a new file source over the file or directory tree at
// pathname.
func NewSource(pathname string) (*Source, error) {
	rs, err := NewRawSource(pathname)
	if err != nil {
		return nil, errors.Wrap(err, "getting raw source")
	}
	s := &Source{
		rawSource: rs,
		records:   make(chan record, 100),
	}
	go s.run()
	return s, nil
}

func (s *Source) run() {
	reader, err := s.rawSource.NextReader()
	for ; err == nil; reader, err = s.rawSource.NextReader() {
		src := json.NewSource(reader)
		r := record{}
		for {
			r.data, r.err = src.Record()
			if r.err == io.EOF {
				break
			}
			if r.err != nil {
				// The decoder can't resync after a syntax error, so report it
				// and move on to the next file.
				r.err = errors.Wrapf(r.err, "decoding json from %s", reader.Name())
				s.records <- r
				break
			}
			s.records <- r
		}
		reader.Close()
	}
	if err != io.EOF {
		s.records <- record{err: errors.Wrap(err, "getting next reader")}
	}

	close(s.records)
}

// Record implements playlake.Source returning one decoded json object per
// call.
func (s *Source) Record() (map[string]interface{}, error) {
	rec, ok := <-s.records
	if !ok {
		return nil, io.EOF
	}
	return rec.data, rec.err
}

type record struct {
	data map[string]interface{}
	err  error
}

// RawSource hands out a reader for each file under a path, in lexical path
// order so that downstream first-wins rules are stable across runs.
type RawSource struct {
	files   []string
	fileIdx *uint64
}

// NewRawSource collects the regular files at or under pathname.
func NewRawSource(pathname string) (*RawSource, error) {
	fileIdx := uint64(0)
	s := &RawSource{
		fileIdx: &fileIdx,
	}
	err := filepath.Walk(pathname, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		s.files = append(s.files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking path")
	}
	return s, nil
}

type namedFile struct {
	*os.File
}

func (m *namedFile) Name() string {
	return filepath.Base(m.File.Name())
}

// NextReader implements playlake.RawSource.
func (s *RawSource) NextReader() (playlake.NamedReadCloser, error) {
	idx := atomic.AddUint64(s.fileIdx, 1) - 1
	if int(idx) >= len(s.files) {
		return nil, io.EOF
	}

	file, err := os.Open(s.files[idx])
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", s.files[idx])
	}

	mf := namedFile{file}
	return &mf, nil
}
