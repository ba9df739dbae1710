package s3

import (
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/playlake/playlake"
	"github.com/playlake/playlake/parquet"
	"github.com/pkg/errors"
)

// TableWriter is a playlake.TableWriter which stages each table as a local
// partitioned parquet dataset and uploads the files to S3, preserving the
// partition directory layout under the configured prefix.
type TableWriter struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

// NewTableWriter returns a TableWriter targeting s3://bucket/prefix in the
// given region.
func NewTableWriter(region, bucket, prefix string) (*TableWriter, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, errors.Wrap(err, "getting new session")
	}
	return &TableWriter{
		bucket:   bucket,
		prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// WriteTable implements playlake.TableWriter.
func (w *TableWriter) WriteTable(t *playlake.Table) error {
	tmp, err := ioutil.TempDir("", "playlake-"+t.Name)
	if err != nil {
		return errors.Wrap(err, "creating staging dir")
	}
	defer os.RemoveAll(tmp)

	if err := parquet.NewWriter(tmp).WriteTable(t); err != nil {
		return errors.Wrap(err, "staging table")
	}
	return errors.Wrap(w.uploadTree(tmp), "uploading table")
}

func (w *TableWriter) uploadTree(root string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return errors.Wrap(err, "relativizing staged path")
		}
		f, err := os.Open(p)
		if err != nil {
			return errors.Wrapf(err, "opening staged file %s", p)
		}
		defer f.Close()

		key := path.Join(w.prefix, filepath.ToSlash(rel))
		_, err = w.uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(w.bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		return errors.Wrapf(err, "uploading %s", key)
	})
}
