package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() *Cache {
	return New(zerolog.Nop())
}

func TestGetCachesUntilInvalidated(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := Fetch(ctx, c, KeyItems, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Second read is served from cache.
	v, err = Fetch(ctx, c, KeyItems, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)

	c.Invalidate(KeyItems)
	assert.False(t, c.Fresh(KeyItems))

	v, err = Fetch(ctx, c, KeyItems, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	_, err := Fetch(ctx, c, KeyProducts, fetch)
	require.Error(t, err)
	assert.False(t, c.Fresh(KeyProducts))

	v, err := Fetch(ctx, c, KeyProducts, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGetDeduplicatesConcurrentFetches(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(ctx, c, KeyProjects, fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestItemStatusChangeStalesDashboards(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	for _, key := range []Key{KeyItems, KeyStats, KeyCharts} {
		_, err := Fetch(ctx, c, key, func(ctx context.Context) (string, error) {
			return "cached", nil
		})
		require.NoError(t, err)
		require.True(t, c.Fresh(key))
	}

	c.ApplyMutation(MutationItemStatusChange, Target{ItemID: "item-7", ProjectID: "proj-1"})

	// The item list, dashboard statistics and chart data must all be
	// stale so their next read refetches.
	assert.False(t, c.Fresh(KeyItems))
	assert.False(t, c.Fresh(KeyStats))
	assert.False(t, c.Fresh(KeyCharts))
}

func TestInvalidationTableCoversEveryMutation(t *testing.T) {
	for _, m := range Mutations {
		keys, ok := Invalidations[m]
		require.Truef(t, ok, "mutation %s missing from table", m)
		assert.NotEmptyf(t, keys, "mutation %s has an empty invalidation set", m)
	}
	assert.Len(t, Invalidations, len(Mutations))
}

func TestInvalidationTableMatchesDocumentedDependencies(t *testing.T) {
	contains := func(keys []Key, want Key) bool {
		for _, k := range keys {
			if k == want {
				return true
			}
		}
		return false
	}

	// Every item and project mutation affects the dashboard aggregates.
	for _, m := range []Mutation{
		MutationProjectCreate, MutationProjectUpdate, MutationProjectDelete,
		MutationItemCreate, MutationItemStatusChange, MutationItemDelete,
	} {
		for _, want := range []Key{KeyStats, KeyCharts} {
			assert.Truef(t, contains(Invalidations[m], want), "%s must invalidate %s", m, want)
		}
	}

	// Product mutations always touch the product list.
	for _, m := range []Mutation{MutationProductCreate, MutationProductUpdate, MutationProductDelete} {
		assert.True(t, contains(Invalidations[m], KeyProducts))
	}

	// Item mutations always touch the item list.
	for _, m := range []Mutation{MutationItemCreate, MutationItemStatusChange, MutationItemDelete} {
		assert.True(t, contains(Invalidations[m], KeyItems))
	}
}

func TestKeysForAddsEntityScopedKeys(t *testing.T) {
	keys := KeysFor(MutationItemStatusChange, Target{ItemID: "item-7", ProjectID: "proj-1"})

	assert.Contains(t, keys, ItemKey("item-7"))
	assert.Contains(t, keys, ProjectKey("proj-1"))
	assert.Contains(t, keys, ProjectItemsKey("proj-1"))

	keys = KeysFor(MutationProductUpdate, Target{ProductID: "prod-3"})
	assert.Contains(t, keys, ProductKey("prod-3"))
	assert.NotContains(t, keys, ProjectKey(""))
}
