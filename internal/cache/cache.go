// Package cache implements the read-through cache in front of the catalog,
// order and dashboard query paths, and the invalidation rules that keep it
// coherent with the store of record.
//
// Cache failures are never fatal: a failed read degrades to direct
// computation, a failed write serves the uncached result, and a failed
// invalidation leaves stale entries to age out via TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the key-value store with expiry behind the read-through layer
// and the invalidation coordinator. Values are always JSON-serialized text.
//
// DeleteByPrefix is part of the contract because listing keys are
// parameter-combinatorial and can only be evicted by pattern; both
// implementations support prefix scans natively.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}
