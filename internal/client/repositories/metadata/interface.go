// Package metadata is the key/value table of the CLI state database. The
// client keeps its session tokens there.
package metadata

import (
	"context"
)

// Repository is a small key/value store. Get returns nil, nil for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
