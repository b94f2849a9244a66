package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored file.
type ObjectInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type FileStorage interface {
	// Upload stores a file and returns its cleaned key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// List returns every file under prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
