package storage

import (
	"context"
	"io"
)

// ObjectStore is the narrow interface the application consumes for binary
// payloads. Implementations may target local disk or an external CDN.
type ObjectStore interface {
	Store(ctx context.Context, data io.Reader, folder, filename string) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}
