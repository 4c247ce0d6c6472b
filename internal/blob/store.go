package blob

import "context"

// Store persists uploaded files and returns a public URL for each object.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
