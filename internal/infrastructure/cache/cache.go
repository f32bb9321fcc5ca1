package cache

import (
	"context"
	"time"
)

// Store is a key-value store with expiration, used for idempotency keys and
// webhook deduplication
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error

	// SetNX stores the key only if it does not already exist.
	// Returns true when the key was set by this call.
	SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error)
}
