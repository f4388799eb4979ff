package cache

import (
	"context"
	"time"
)

// Store is the shared cache interface. The forum uses it for the thread
// listing only; a miss is never an error, so callers must always be able
// to fall through to the database.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
