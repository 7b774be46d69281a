// Package storage contains the blob store used for uploaded note files.
// Clients never stream bytes through this service: they receive time-limited
// signed URLs and talk to the object store directly.
package storage

import (
	"context"
	"time"
)

// SignedURL is a time-limited handle to one object.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// BlobStore is the S3-compatible object store holding note files.
type BlobStore interface {
	// PresignPut returns a URL that lets the holder upload the object at key.
	PresignPut(ctx context.Context, key string, ttl time.Duration) (SignedURL, error)
	// PresignGet returns a URL that lets the holder download the object at key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (SignedURL, error)
	// Delete removes an object by key. Removing a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
