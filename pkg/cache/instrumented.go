package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/flowlayout/pkg/observability"
)

// Instrumented reports every operation of the wrapped cache to the
// registered cache hooks. Keys are bucketed as "layout" or "analysis" by the
// segment they carry, anything else as "other".
type Instrumented struct {
	Cache
}

// NewInstrumented wraps c.
func NewInstrumented(c Cache) *Instrumented {
	return &Instrumented{Cache: c}
}

// Get forwards to the wrapped cache and reports a hit or miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

// Set forwards to the wrapped cache and reports the write size.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *Instrumented) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}

func keyType(key string) string {
	for _, kt := range []string{KeyTypeLayout, KeyTypeAnalysis} {
		if strings.Contains(key, kt+":") {
			return kt
		}
	}
	return "other"
}

var _ Clearer = (*Instrumented)(nil)
