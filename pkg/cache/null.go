package cache

import (
	"context"
	"time"
)

// NullCache is a no-op backend used when caching is disabled.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get implements [Cache]; always a miss.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements [Cache]; discards the value.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements [Cache].
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close implements [Cache].
func (*NullCache) Close() error { return nil }
