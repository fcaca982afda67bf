package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client wraps a Store with the read-through policy: check the cache,
// compute on miss, write the computed value back. Concurrent misses on the
// same key are collapsed into a single compute call so a hot key expiring
// does not stampede the database.
type Client struct {
	store      Store
	group      singleflight.Group
	defaultTTL time.Duration
	listingTTL time.Duration
}

func NewClient(store Store, defaultTTL, listingTTL time.Duration) *Client {
	return &Client{
		store:      store,
		defaultTTL: defaultTTL,
		listingTTL: listingTTL,
	}
}

func (c *Client) Store() Store { return c.store }

// DefaultTTL is the lifetime applied when a caller passes ttl 0.
func (c *Client) DefaultTTL() time.Duration { return c.defaultTTL }

// ListingTTL is the short lifetime for search-result pages.
func (c *Client) ListingTTL() time.Duration { return c.listingTTL }

func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// GetOrCompute returns the cached value under key, or runs compute and
// caches its result for ttl (the client default when ttl is 0). A failing
// cache read degrades to compute; a failing write-back is logged and the
// fresh value returned anyway. The cache never makes a request fail.
func GetOrCompute[T any](ctx context.Context, c *Client, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.store.Get(ctx, key)
	if err == nil {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			return value, nil
		}
		slog.Warn("[Cache] Dropping undecodable entry", "key", key)
		if err := c.store.Delete(ctx, key); err != nil {
			slog.Warn("[Cache] Failed to drop entry", "key", key, "error", err)
		}
	} else if !errors.Is(err, ErrMiss) {
		slog.Warn("[Cache] Read failed, computing directly", "key", key, "error", err)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache value for %q: %w", key, err)
		}

		if ttl <= 0 {
			ttl = c.defaultTTL
		}
		if err := c.store.SetWithTTL(ctx, key, string(encoded), ttl); err != nil {
			slog.Warn("[Cache] Write-back failed", "key", key, "error", err)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}
