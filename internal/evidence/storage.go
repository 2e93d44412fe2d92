package evidence

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Storage.Open for unknown objects.
var ErrNotFound = errors.New("evidence not found")

// Storage persists evidence blobs under their stored name.
type Storage interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Ping(ctx context.Context) error
}
