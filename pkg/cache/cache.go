package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used by repositories.
// A miss is (false, nil); infrastructure faults surface as errors so
// callers can decide to bypass the cache instead of failing the request.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
