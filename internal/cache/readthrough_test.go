package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	*MemoryStore
	failGet bool
	failSet bool
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if s.failGet {
		return "", errors.New("connection refused")
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.failSet {
		return errors.New("connection refused")
	}
	return s.MemoryStore.SetWithTTL(ctx, key, value, ttl)
}

func TestGetOrComputeCachesResult(t *testing.T) {
	client := NewClient(NewMemoryStore(), 4*time.Hour, 30*time.Second)
	ctx := context.Background()

	var calls int
	compute := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}

	got, err := GetOrCompute(ctx, client, "admin-stats", 0, compute)
	require.NoError(t, err)
	require.Equal(t, 42, got)

	got, err = GetOrCompute(ctx, client, "admin-stats", 0, compute)
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, 1, calls)
}

func TestGetOrComputeComputeError(t *testing.T) {
	client := NewClient(NewMemoryStore(), 4*time.Hour, 30*time.Second)
	ctx := context.Background()

	wantErr := errors.New("db down")
	_, err := GetOrCompute(ctx, client, "categories", 0, func(ctx context.Context) ([]string, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// Nothing cached on failure.
	_, err = client.store.Get(ctx, "categories")
	require.ErrorIs(t, err, ErrMiss)
}

func TestGetOrComputeDegradesOnReadFailure(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore(), failGet: true}
	client := NewClient(store, 4*time.Hour, 30*time.Second)

	got, err := GetOrCompute(context.Background(), client, "all-products", 0, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", got)
}

func TestGetOrComputeWriteBackFailureReturnsValue(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore(), failSet: true}
	client := NewClient(store, 4*time.Hour, 30*time.Second)

	got, err := GetOrCompute(context.Background(), client, "all-orders", 0, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", got)
}

func TestGetOrComputeCollapsesConcurrentMisses(t *testing.T) {
	client := NewClient(NewMemoryStore(), 4*time.Hour, 30*time.Second)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := GetOrCompute(ctx, client, "admin-line-charts", 0, compute)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Give the goroutines time to pile onto the same flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, got := range results {
		require.Equal(t, 7, got)
	}
}
