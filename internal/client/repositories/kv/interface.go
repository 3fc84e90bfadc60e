package kv

import (
	"context"
)

// Repository is a scoped key/value table. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	List(ctx context.Context, scope string) (map[string][]byte, error)
	Clear(ctx context.Context, scope string) error
}
