package ports

import "context"

// BlobStorage is a durable key-value store scoped to one browser context,
// the server-side counterpart of the browser's local storage.
// Get returns (nil, nil) when the key is absent.
type BlobStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
