// Package cache is a process-local TTL cache with coalesced rebuilds.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache stores values by key until their TTL elapses.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

// Get returns the live value for key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value for ttl. A non-positive ttl stores nothing.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Delete drops key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// MissFunc observes a rebuild: the fresh value and how long it took.
type MissFunc[T any] func(value T, took time.Duration)

// BuildTimeout bounds a shared rebuild once it is detached from its callers.
const BuildTimeout = time.Minute

// Remember returns the cached value for key or builds it. Concurrent misses
// on the same key share one build. The value is stored only after build
// returns successfully, and onMiss runs once per build, never on hits.
// With a non-positive ttl every call builds.
//
// A shared build keeps the values of the first caller's ctx but not its
// cancellation: a caller whose ctx ends stops waiting and gets ctx.Err(),
// while the build continues for the others, bounded by BuildTimeout.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, build func(context.Context) (T, error), onMiss MissFunc[T]) (T, error) {
	var zero T
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	if ttl <= 0 {
		return buildObserved(ctx, c, build, onMiss)
	}

	results := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), BuildTimeout)
		defer cancel()
		value, err := buildObserved(buildCtx, c, build, onMiss)
		if err != nil {
			return nil, err
		}
		c.Set(key, value, ttl)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func buildObserved[T any](ctx context.Context, c *Cache, build func(context.Context) (T, error), onMiss MissFunc[T]) (T, error) {
	start := c.now()
	value, err := build(ctx)
	if err != nil {
		return value, err
	}
	if onMiss != nil {
		onMiss(value, c.now().Sub(start))
	}
	return value, nil
}
