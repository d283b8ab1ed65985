package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects to a directory on disk and serves them under a
// URL prefix. The dev-environment default.
type LocalStore struct {
	dir       string
	urlPrefix string
	logger    *slog.Logger
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir, urlPrefix string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(obj.Name) // no path traversal past the store dir
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, obj.Data, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", name, err)
	}

	s.logger.Debug("object stored", "name", name, "bytes", len(obj.Data))
	return s.urlPrefix + "/" + name, nil
}

// PutBatch writes sequentially and removes everything already written when
// a later member fails, so callers never see a partially stored batch.
func (s *LocalStore) PutBatch(ctx context.Context, objs []Object) ([]string, error) {
	urls := make([]string, 0, len(objs))
	for i, obj := range objs {
		url, err := s.Put(ctx, obj)
		if err != nil {
			s.cleanup(objs[:i])
			return nil, fmt.Errorf("store batch member %d: %w", i, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *LocalStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("fetch object %s: %w", name, err)
	}
	return data, nil
}

func (s *LocalStore) cleanup(written []Object) {
	for _, obj := range written {
		name := filepath.Base(obj.Name)
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Warn("failed to remove partial batch object", "name", name, "error", err)
		}
	}
}
