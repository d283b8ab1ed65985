package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
)

// GCSStore persists objects in a Google Cloud Storage bucket. Object URLs
// use the public storage.googleapis.com form.
type GCSStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	prefix     string
	logger     *slog.Logger
}

// NewGCSStore wires a bucket. The prefix namespaces this deployment's
// objects within the bucket.
func NewGCSStore(ctx context.Context, bucketName, prefix string, logger *slog.Logger) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
		logger:     logger,
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, obj Object) (string, error) {
	name := s.objectName(obj.Name)
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = obj.ContentType

	if _, err := w.Write(obj.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gcs object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gcs object %s: %w", name, err)
	}

	s.logger.Debug("object stored", "bucket", s.bucketName, "name", name, "bytes", len(obj.Data))
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name), nil
}

// PutBatch uploads members concurrently but commits atomically from the
// caller's perspective: if any member fails, objects already written are
// deleted and only the error is returned.
func (s *GCSStore) PutBatch(ctx context.Context, objs []Object) ([]string, error) {
	urls := make([]string, len(objs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, obj := range objs {
		g.Go(func() error {
			url, err := s.Put(gctx, obj)
			if err != nil {
				return fmt.Errorf("store batch member %d: %w", i, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.cleanup(objs)
		return nil, err
	}
	return urls, nil
}

func (s *GCSStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	marker := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucketName)
	name := strings.TrimPrefix(url, marker)
	if name == url {
		return nil, fmt.Errorf("url %q does not belong to bucket %s", url, s.bucketName)
	}

	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gcs object %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gcs object %s: %w", name, err)
	}
	return data, nil
}

func (s *GCSStore) objectName(suggested string) string {
	if s.prefix == "" {
		return suggested
	}
	return s.prefix + "/" + suggested
}

// cleanup best-effort deletes every batch object after a failed batch.
// Missing objects are expected for members that never got written.
func (s *GCSStore) cleanup(objs []Object) {
	ctx := context.Background()
	for _, obj := range objs {
		name := s.objectName(obj.Name)
		if err := s.bucket.Object(name).Delete(ctx); err != nil && err != gcs.ErrObjectNotExist {
			s.logger.Warn("failed to remove partial batch object", "name", name, "error", err)
		}
	}
}
