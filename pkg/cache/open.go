package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string
	Dir     string
	Redis   RedisOptions
}

// Open builds the configured backend wrapped in [Instrumented].
// An empty backend name selects the null cache.
func Open(ctx context.Context, opts Options) (*Instrumented, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewInstrumented(NewNullCache()), nil
	case BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return NewInstrumented(c), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return NewInstrumented(c), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
