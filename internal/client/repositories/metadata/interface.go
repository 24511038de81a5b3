// Package metadata is the client's small durable key/value store. The
// session store keeps the signed-in user under a single fixed key here.
package metadata

import (
	"context"
)

// Repository is implemented by the SQLite and Redis backends.
// Get returns (nil, nil) for a missing key; Delete of a missing key is not
// an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
