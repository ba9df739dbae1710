// Package s3 reads raw newline-delimited json record sets from S3 and writes
// finished parquet datasets back to S3.
package s3

import (
	"io"
	"sort"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/playlake/playlake"
	"github.com/playlake/playlake/json"
	"github.com/pkg/errors"
)

// SrcOption is a functional option type for s3.Source.
type SrcOption func(s *Source)

// OptSrcBufSize sets the number of records to buffer while waiting for Record
// to be called.
func OptSrcBufSize(bufsize int) SrcOption {
	return func(s *Source) {
		s.records = make(chan record, bufsize)
	}
}

// Source is a playlake.Source which reads newline-delimited json objects from
// every object in a bucket under a prefix.
type Source struct {
	rs      *RawSource
	records chan record
}

type record struct {
	data map[string]interface{}
	err  error
}

// NewSource returns a Source over the objects in bucket matching prefix.
func NewSource(region, bucket, prefix string, opts ...SrcOption) (*Source, error) {
	s := &Source{
		records: make(chan record, 100),
	}
	for _, opt := range opts {
		opt(s)
	}
	var err error
	s.rs, err = NewRawSource(region, bucket, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "getting raw s3 source")
	}

	go s.run()

	return s, nil
}

func (s *Source) run() {
	reader, err := s.rs.NextReader()
	for ; err == nil; reader, err = s.rs.NextReader() {
		jsource := json.NewSource(reader)
		r := record{}
		for {
			r.data, r.err = jsource.Record()
			if r.err == io.EOF {
				break
			}
			if r.err != nil {
				// The decoder can't resync after a syntax error, so report it
				// and move on to the next object.
				r.err = errors.Wrapf(r.err, "decoding json from %s", reader.Name())
				s.records <- r
				break
			}
			s.records <- r
		}
		reader.Close()
	}
	if err != io.EOF {
		s.records <- record{err: errors.Wrap(err, "getting next object")}
	}
	close(s.records)
}

// Record implements playlake.Source. It parses the next json object from the
// current object in the bucket, or moves to the next object and parses and
// returns its first record.
func (s *Source) Record() (map[string]interface{}, error) {
	rec, ok := <-s.records
	if !ok {
		return nil, io.EOF
	}
	return rec.data, rec.err
}

// RawSource hands out a reader per S3 object under a prefix, in sorted key
// order.
type RawSource struct {
	bucket string
	prefix string
	region string

	s3     *s3.S3
	sess   *session.Session
	keys   []string
	objIdx *uint64
}

// NewRawSource lists the objects in bucket matching prefix and returns a
// RawSource over them. Listing paginates, so buckets with more than one page
// of objects work.
func NewRawSource(region, bucket, prefix string) (*RawSource, error) {
	idx := uint64(0)
	rs := &RawSource{
		region: region,
		bucket: bucket,
		prefix: prefix,

		objIdx: &idx,
	}
	var err error
	rs.sess, err = session.NewSession(&aws.Config{
		Region: aws.String(rs.region)},
	)
	if err != nil {
		return nil, errors.Wrap(err, "getting new session")
	}
	rs.s3 = s3.New(rs.sess)
	err = rs.s3.ListObjectsPages(
		&s3.ListObjectsInput{Bucket: aws.String(rs.bucket), Prefix: aws.String(rs.prefix)},
		func(page *s3.ListObjectsOutput, lastPage bool) bool {
			for _, obj := range page.Contents {
				rs.keys = append(rs.keys, *obj.Key)
			}
			return !lastPage
		})
	if err != nil {
		return nil, errors.Wrap(err, "listing objects")
	}
	sort.Strings(rs.keys)

	return rs, nil
}

type objReader struct {
	name string
	body io.ReadCloser
}

func (o *objReader) Read(buf []byte) (n int, err error) {
	return o.body.Read(buf)
}

func (o *objReader) Close() error {
	return o.body.Close()
}

func (o *objReader) Name() string {
	return o.name
}

// NextReader implements playlake.RawSource.
func (rs *RawSource) NextReader() (playlake.NamedReadCloser, error) {
	idx := atomic.AddUint64(rs.objIdx, 1) - 1
	if int(idx) >= len(rs.keys) {
		return nil, io.EOF
	}
	key := rs.keys[idx]

	result, err := rs.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(rs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %v", key)
	}
	return &objReader{name: key, body: result.Body}, nil
}
