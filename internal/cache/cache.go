// Package cache is the server-side read cache in front of the repositories.
// Reads are de-duplicated per key, failed refreshes keep serving the last
// known-good value, and invalidation bumps a per-key generation so results
// from superseded fetches never overwrite newer data.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the authoritative value for a key.
type Loader func(ctx context.Context) (any, error)

// State describes what the cache currently knows about a key.
type State struct {
	HasValue   bool
	Err        error
	Generation uint64
}

type entry struct {
	value    any
	hasValue bool
	valid    bool // false after invalidation; value kept as stale fallback
	gen      uint64
	err      error
}

// Options configures a Cache.
type Options struct {
	// Attempts is how many times a loader runs before the fetch is declared
	// failed. Zero means DefaultAttempts.
	Attempts int
	Logger   *slog.Logger
}

// DefaultAttempts bounds the retry loop for a single fetch.
const DefaultAttempts = 3

// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	group    singleflight.Group
	attempts int
	logger   *slog.Logger
}

// New creates a Cache.
func New(opts Options) *Cache {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries:  make(map[Key]*entry),
		attempts: attempts,
		logger:   logger.With("component", "cache"),
	}
}

// Get returns the cached value for key, fetching through load on a miss or
// after invalidation. Concurrent callers for the same key share one fetch.
// When the fetch fails and a previous value exists, that value is returned
// together with the error.
func (c *Cache) Get(ctx context.Context, key Key, load Loader) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	if e.valid {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	gen := e.gen
	c.mu.Unlock()

	// The generation is part of the flight key: a fetch issued after an
	// invalidation never coalesces with one issued before it.
	flight := fmt.Sprintf("%s#%d", key, gen)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		return c.fetch(ctx, key, gen, load)
	})
	if err != nil {
		return c.staleOrError(key, err)
	}
	return v, nil
}

// Invalidate marks the given keys stale. The next Get refetches; fetches
// already in flight for the old generation are discarded on completion.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		e := c.entryLocked(key)
		e.valid = false
		e.gen++
	}
}

// InvalidateResource marks every key with the given resource tag stale,
// regardless of parameter.
func (c *Cache) InvalidateResource(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if key.Resource == resource {
			e.valid = false
			e.gen++
		}
	}
}

// StateOf reports the cached state for a key, mainly for tests and debug
// surfaces.
func (c *Cache) StateOf(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return State{}
	}
	return State{HasValue: e.hasValue, Err: e.err, Generation: e.gen}
}

func (c *Cache) fetch(ctx context.Context, key Key, gen uint64, load Loader) (any, error) {
	var (
		v   any
		err error
	)
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		v, err = load(ctx)
		if err == nil {
			break
		}
		c.logger.WarnContext(ctx, "fetch attempt failed",
			"key", key.String(), "attempt", attempt, "err", err)
	}
	if err != nil {
		c.recordError(key, gen, err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	if gen != e.gen {
		// Superseded by an invalidation while in flight. The caller still
		// gets the fetched value, the cache keeps waiting for the newer
		// generation.
		return v, nil
	}
	e.value = v
	e.hasValue = true
	e.valid = true
	e.err = nil
	return v, nil
}

func (c *Cache) staleOrError(key Key, err error) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	if e.hasValue {
		return e.value, err
	}
	return nil, err
}

func (c *Cache) recordError(key Key, gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	if gen == e.gen {
		e.err = err
	}
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// GetAs fetches through the cache and asserts the concrete type, so services
// keep typed signatures over the any-valued store.
func GetAs[T any](ctx context.Context, c *Cache, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if v == nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: %s holds %T, not %T", key, v, zero)
	}
	return typed, err
}
