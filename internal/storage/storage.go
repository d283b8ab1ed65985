// Package storage abstracts the file store that holds uploaded images.
// Implementations persist opaque blobs and hand back stable URLs.
package storage

import "context"

// Object is one blob queued for a batch write.
type Object struct {
	Data        []byte
	Name        string // suggested object name, already unique
	ContentType string
}

// Store persists uploaded binaries. PutBatch is atomic from the caller's
// perspective: either every object is stored and a URL is returned per
// input in input order, or an error is returned and no partial result is
// treated as success.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
	PutBatch(ctx context.Context, objs []Object) ([]string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}
