// Package cache holds query results keyed by logical query identifiers
// and serves them until a mutation marks them stale. It never merges
// server state; a stale key simply refetches on its next read.
package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Key is a logical query identifier, e.g. "items" or "project:42".
type Key string

// Static query keys.
const (
	KeyProducts       Key = "products"
	KeyProjects       Key = "projects"
	KeyItems          Key = "items"
	KeyStats          Key = "dashboard-stats"
	KeyCharts         Key = "dashboard-charts"
	KeyRecentActivity Key = "recent-activity"
)

// ProductKey is the detail key for a single product.
func ProductKey(id string) Key { return Key("product:" + id) }

// ProjectKey is the detail key for a single project.
func ProjectKey(id string) Key { return Key("project:" + id) }

// ItemKey is the detail key for a single item.
func ItemKey(id string) Key { return Key("item:" + id) }

// ProjectItemsKey is the key for a project's item list.
func ProjectItemsKey(projectID string) Key { return Key("project-items:" + projectID) }

// FetchFunc loads the value for a key from the service.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value any
	fresh bool
}

// Cache is the owner of all cached query results. Views never hold
// entries directly; they go through Get so that concurrent reads of the
// same key collapse into one fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
	log     zerolog.Logger
}

// New creates an empty cache.
func New(log zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		log:     log,
	}
}

// Get returns the cached value for key, or runs fetch to populate it.
// Concurrent callers for the same key share a single fetch. A fetch
// error is returned to every waiter and nothing is cached.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.fresh {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do(string(key), func() (any, error) {
		// Re-check: another caller may have filled the entry while
		// this one waited on the flight group.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && e.fresh {
			c.mu.Unlock()
			return e.value, nil
		}
		c.mu.Unlock()

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &entry{value: v, fresh: true}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Fetch is a typed wrapper around Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate marks the given keys stale. Invalidation is not
// transactional across keys: a reader may observe some keys already
// stale and others not yet, which is acceptable because the server is
// authoritative and the next fetch reconciles.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.fresh = false
		}
	}
	c.log.Debug().Interface("keys", keys).Msg("cache invalidated")
}

// InvalidateAll marks every entry stale, used on login/logout.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.fresh = false
	}
}

// Fresh reports whether key currently holds a fresh value.
func (c *Cache) Fresh(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && e.fresh
}
