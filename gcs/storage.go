package gcs

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	storage "google.golang.org/api/storage/v1"
)

// Store stages media files somewhere durable and hands back a URI the
// other cloud services can read.
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

type BucketStore struct {
	svc    *storage.Service
	bucket string
	log    *log.Logger
}

func NewBucketStore(
	ctx context.Context,
	bucket string,
	logger *log.Logger,
) (*BucketStore, error) {
	svc, err := storage.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &BucketStore{svc: svc, bucket: bucket, log: logger}, nil
}

// Upload writes the object and returns its gs:// URI.
func (s *BucketStore) Upload(
	ctx context.Context,
	name string,
	r io.Reader,
) (string, error) {
	_, err := s.svc.Objects.
		Insert(s.bucket, &storage.Object{Name: name}).
		Media(r).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", name, err)
	}

	uri := fmt.Sprintf("gs://%s/%s", s.bucket, name)
	s.log.Info("uploaded object", "bucket", s.bucket, "name", name)
	return uri, nil
}

func (s *BucketStore) Delete(ctx context.Context, name string) error {
	err := s.svc.Objects.Delete(s.bucket, name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	s.log.Info("deleted object", "bucket", s.bucket, "name", name)
	return nil
}
