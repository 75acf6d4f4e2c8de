package cache

import "context"

// Store caches serialized values for a fixed TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	// Purge drops every entry owned by the store.
	Purge(ctx context.Context)
}
