// Package fetchcache shields rate-limited upstream APIs behind a short-TTL
// in-memory cache with in-flight request coalescing: however many callers
// arrive during one TTL window, at most one upstream call per key is made.
package fetchcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homewatch/internal/logger"
)

// FetchFunc performs the actual upstream call for a key.
type FetchFunc func(ctx context.Context) (any, error)

// DefaultTimeout bounds a single upstream call so a hung fetch cannot occupy
// the in-flight slot forever and starve later callers.
const DefaultTimeout = 15 * time.Second

// call is one shared in-flight fetch. Waiters block on done and then read
// val/err; both are written exactly once, before done is closed.
type call struct {
	done chan struct{}
	val  any
	err  error
}

// entry is the per-key state: the last successful result plus the in-flight
// call, if any.
type entry struct {
	val      any
	fetched  time.Time
	has      bool
	inflight *call
}

// Cache is a process-local fetch cache. Construct it once in main and inject
// it into the services that talk to upstream APIs.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// New creates a Cache. timeout bounds each upstream call; zero or negative
// selects DefaultTimeout.
func New(timeout time.Duration, log *logger.Logger) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cache{
		entries: make(map[string]*entry),
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key if it is younger than ttl.
// Otherwise it joins the in-flight fetch for the key, or starts one. A failed
// fetch is never cached: if any prior success exists its (possibly expired)
// value is served instead, and the error is only propagated when the cache
// holds nothing at all for the key.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fn FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}

	if e.has && c.now().Sub(e.fetched) < ttl {
		v := e.val
		c.mu.Unlock()
		return v, nil
	}

	cl := e.inflight
	if cl == nil {
		cl = &call{done: make(chan struct{})}
		e.inflight = cl
		go c.run(key, e, cl, fn)
	}
	c.mu.Unlock()

	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		// The fetch keeps running for the other waiters.
		return nil, ctx.Err()
	}
}

// run executes the upstream call and publishes the shared result. The call is
// bounded by the cache timeout rather than any single caller's context, so
// one impatient caller cannot fail the fetch for everyone else.
func (c *Cache) run(key string, e *entry, cl *call, fn FetchFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		e.val = val
		e.fetched = c.now()
		e.has = true
		cl.val = val
	case e.has:
		// Stale beats broken: keep serving the last good value.
		if c.log != nil {
			c.log.Warnw("fetch failed, serving stale data", "key", key, "age", c.now().Sub(e.fetched), "err", err)
		}
		cl.val = e.val
	default:
		cl.err = err
	}
	e.inflight = nil
	close(cl.done)
}

// Invalidate drops the cached value for key. An in-flight fetch is not
// interrupted; its result will repopulate the entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.entries[key]; e != nil {
		e.has = false
		e.val = nil
	}
}

// Fetch is the typed convenience wrapper around Cache.GetOrFetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("fetchcache: key %q holds %T, caller expects %T", key, v, zero)
	}
	return out, nil
}
