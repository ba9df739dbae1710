package json

import (
	"encoding/json"
	"io"

	"github.com/playlake/playlake"
	"github.com/pkg/errors"
)

// Source is a playlake.Source reading newline-delimited JSON objects.
type Source struct {
	dec *json.Decoder
}

// NewSource gets a new json source which will decode from the given reader.
func NewSource(r io.Reader) *Source {
	return &Source{
		dec: json.NewDecoder(r),
	}
}

// Record implements playlake.Source. It returns the next object that can be
// decoded from the reader.
func (s *Source) Record() (map[string]interface{}, error) {
	var res map[string]interface{}
	err := s.dec.Decode(&res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type rawSourceSource struct {
	rs playlake.RawSource

	cur playlake.NamedReadCloser
	s   *Source
}

// NewSourceFromRawSource chains the readers of rs into a single stream of
// decoded records, moving to the next reader whenever the current one is
// exhausted.
func NewSourceFromRawSource(rs playlake.RawSource) playlake.Source {
	return &rawSourceSource{rs: rs}
}

// Record implements playlake.Source.
func (r *rawSourceSource) Record() (map[string]interface{}, error) {
	if r.s == nil {
		reader, err := r.rs.NextReader()
		if err == io.EOF {
			return nil, err
		} else if err != nil {
			return nil, errors.Wrap(err, "getting next reader")
		}
		r.cur = reader
		r.s = NewSource(reader)
	}
	rec, err := r.s.Record()
	if err == io.EOF {
		r.cur.Close()
		r.cur = nil
		r.s = nil
		return r.Record()
	} else if err != nil {
		return rec, errors.Wrapf(err, "decoding json from %s", r.cur.Name())
	}
	return rec, nil
}
