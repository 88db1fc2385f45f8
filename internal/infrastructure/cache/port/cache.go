package port

import (
	"context"
	"time"
)

// ErrMiss is the typed cache-miss signal, distinguishable from transport
// errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }

// Cache is the minimal key-value contract the application depends on. Values
// are plain strings; serialization stays with the caller so the port remains
// generic. Implementations must be safe for concurrent use.
type Cache interface {
	// Get fetches the value for key, ErrMiss when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative ttl means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases held resources.
	Close() error
}
