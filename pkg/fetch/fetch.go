// Package fetch downloads campaign result archives from Google Cloud Storage
// into the local results folder.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrArchiveNotFound = errors.New("archive not found in bucket")

// Source opens objects for reading.
type Source interface {
	Open(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// GCS reads objects with a Cloud Storage client.
type GCS struct {
	client *storage.Client
}

func NewGCS(ctx context.Context, opts ...option.ClientOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

func (g *GCS) Open(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrArchiveNotFound, bucket, object)
	}
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}
	return r, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

type Fetcher struct {
	src Source
	log logrus.FieldLogger
}

func New(src Source, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{src: src, log: log}
}

// ObjectName is the bucket object holding the archive of a campaign.
func ObjectName(prefix, name string) string {
	return path.Join(prefix, name+".zip")
}

// Fetch downloads the archive to dest unless it is already there. The file
// appears atomically: it is written next to dest and renamed.
func (f *Fetcher) Fetch(ctx context.Context, bucket, prefix, name, dest string) (bool, error) {
	log := f.log.WithFields(logrus.Fields{"bucket": bucket, "name": name})
	if _, err := os.Stat(dest); err == nil {
		log.WithField("path", dest).Info("archive already present, skipping download")
		return false, nil
	}

	object := ObjectName(prefix, name)
	r, err := f.src.Open(ctx, bucket, object)
	if err != nil {
		return false, err
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return false, fmt.Errorf("download %s: %w", object, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return false, fmt.Errorf("move archive into place: %w", err)
	}

	log.WithFields(logrus.Fields{"object": object, "bytes": n, "path": dest}).Info("archive downloaded")
	return true, nil
}
