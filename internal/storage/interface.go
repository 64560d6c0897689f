package storage

import (
	"context"
	"io"
)

// Storage defines the interface for media object storage.
type Storage interface {
	// Upload stores an object and returns its public URL.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// KeyFromURL derives the object key from a public URL previously
	// returned by Upload. Returns an error for foreign URLs.
	KeyFromURL(publicURL string) (string, error)
}

// Ensure S3Client implements Storage interface
var _ Storage = (*S3Client)(nil)
