package rescache

import (
	"context"
	"time"
)

// Store is a byte store with per-entry TTLs. Get must return exactly the
// bytes previously passed to Set. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl. ok=false means the store declined the write.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)
	// Del removes key. Removing a missing key is not an error.
	Del(ctx context.Context, key string) error
	Close(ctx context.Context) error
}
