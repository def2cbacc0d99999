package storage

import (
	"context"
	"io"
)

// Storage is the object-store boundary used by the chat file-upload path.
// The realtime core treats the store as opaque: it uploads bytes to a path
// and gets back a URL that becomes the message content.
type Storage interface {
	Upload(ctx context.Context, reader io.Reader, path string, size int64, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}
