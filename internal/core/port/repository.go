package port

import "context"

type KeyValueStore interface {
	Set(ctx context.Context, key, value string) (string, error)
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Delete(ctx context.Context, key string) (int64, error)
}
