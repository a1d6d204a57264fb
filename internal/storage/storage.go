// Package storage holds the blob store the image endpoints write to. Only
// opaque keys leave this package; report records never carry image bytes.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned by Get/Delete when no blob exists for the key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores image payloads by opaque key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
