package cache

import (
	"context"
	"time"
)

// Cache is a JSON value cache in front of the details table. Implementations
// must treat corrupt entries as misses, never as errors.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
