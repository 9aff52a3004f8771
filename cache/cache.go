// Package cache implements the framework's typed cache: a store of
// CacheEntry values keyed by fingerprint, with TTL-based expiry and
// single-flight coordination of concurrent refreshes for the same key. It
// intentionally does not decide *when* to refresh or *what* counts as
// fresh — callers (package future) own that policy; this package only
// guarantees that at most one refresh per key is ever in flight and that
// entries expire off the heap on schedule.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Options configures a Cache. New replaces every zero field with a default
// (5 minute TTL, unlimited fetch rate, burst 1, null logger), so the zero
// value is usable.
type Options struct {
	// TTL is how long an entry survives, counted from the last time it was
	// stored or marked absent; lookups do not extend it.
	TTL time.Duration

	// EntryFetchRate and EntryFetchMaxBurst bound how often any single
	// entry may be refreshed in the background, independent of how many
	// callers are blocked waiting on it.
	EntryFetchRate     rate.Limit
	EntryFetchMaxBurst int

	// Logger receives structured diagnostics. Defaults to hclog.NewNullLogger().
	Logger hclog.Logger

	// WarnOnIntegrityGap, when true, makes the gdcf Handle log a warning
	// whenever a fetched level listing references a custom song id that is
	// neither in the same response nor already cached. Store itself never
	// checks, and creator ids are not checked. This recovers the original
	// implementation's integrity() pass, which is otherwise only advisory.
	WarnOnIntegrityGap bool
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Minute
	}
	if o.EntryFetchRate <= 0 {
		o.EntryFetchRate = rate.Inf
	}
	if o.EntryFetchMaxBurst <= 0 {
		o.EntryFetchMaxBurst = 1
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

// rawEntry is the untyped storage cell backing every typed CacheEntry[V].
// Go generics give us no way to store a heterogeneous map of CacheEntry[V]
// directly, so the map holds `any` and the generic accessors below do the
// type assertion at the edges.
type rawEntry struct {
	value   any
	meta    Meta
	expiry  *expiryItem
	limiter *rate.Limiter
}

// Cache is the framework's cache of record. Construct with New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*rawEntry
	heap    *expiryHeap
	group   singleflight.Group
	opts    Options
	stopCh  chan struct{}
	stopped uint32
}

// New constructs a Cache and starts its background expiry loop. Call Close
// to stop it.
func New(opts Options) *Cache {
	c := &Cache{
		entries: make(map[string]*rawEntry),
		heap:    newExpiryHeap(),
		opts:    opts.withDefaults(),
		stopCh:  make(chan struct{}),
	}
	go c.runExpiryLoop()
	return c
}

// Close stops the background expiry loop. In-flight Coordinate calls are
// unaffected; no further entries will be expired afterward.
func (c *Cache) Close() error {
	if atomic.CompareAndSwapUint32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *Cache) Logger() hclog.Logger { return c.opts.Logger }

// WarnOnIntegrityGap reports whether this Cache was configured to surface
// integrity gaps (see Options.WarnOnIntegrityGap). Callers that harvest
// side objects alongside a primary fetch use this to decide whether it's
// worth the work of checking for one.
func (c *Cache) WarnOnIntegrityGap() bool { return c.opts.WarnOnIntegrityGap }

func (c *Cache) entryFor(key string) *rawEntry {
	e, ok := c.entries[key]
	if !ok {
		e = &rawEntry{
			expiry:  &expiryItem{Key: key, HeapIndex: -1},
			limiter: rate.NewLimiter(c.opts.EntryFetchRate, c.opts.EntryFetchMaxBurst),
		}
		c.entries[key] = e
	}
	return e
}

// Lookup returns the current entry for key, or a Missing entry if none
// exists or the stored value is not of type V (the latter would indicate a
// key collision between two unrelated slot types and is treated the same as
// never having been fetched).
func Lookup[V any](c *Cache, key Key) CacheEntry[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key.CacheKey()]
	if !ok {
		return MissingEntry[V]()
	}
	if e.meta.IsAbsent {
		return AbsentEntry[V](e.meta.StoredAt)
	}
	v, ok := e.value.(V)
	if !ok {
		return MissingEntry[V]()
	}
	return CachedEntry(v, e.meta.StoredAt)
}

// Store writes value under key, stamping it with the current time and
// resetting its TTL. It returns the resulting entry.
func Store[V any](c *Cache, key Key, value V) CacheEntry[V] {
	return storeNow(c, key, value, time.Now())
}

func storeNow[V any](c *Cache, key Key, value V, now time.Time) CacheEntry[V] {
	k := key.CacheKey()

	c.mu.Lock()
	e := c.entryFor(k)
	e.value = value
	e.meta = Meta{StoredAt: now}
	c.heap.update(e.expiry, c.opts.TTL)
	count := len(c.entries)
	c.mu.Unlock()

	metrics.IncrCounter([]string{"gdcf", "cache", "store"}, 1)
	metrics.SetGauge([]string{"gdcf", "cache", "entries"}, float32(count))

	return CachedEntry(value, now)
}

// MarkAbsent records that key's backend object was confirmed not to exist,
// stamping the entry with the current time so it still expires normally.
func MarkAbsent[V any](c *Cache, key Key) CacheEntry[V] {
	return markAbsentNow[V](c, key, time.Now())
}

func markAbsentNow[V any](c *Cache, key Key, now time.Time) CacheEntry[V] {
	k := key.CacheKey()

	c.mu.Lock()
	e := c.entryFor(k)
	var zero V
	e.value = zero
	e.meta = Meta{StoredAt: now, IsAbsent: true}
	c.heap.update(e.expiry, c.opts.TTL)
	c.mu.Unlock()

	metrics.IncrCounter([]string{"gdcf", "cache", "mark_absent"}, 1)

	return AbsentEntry[V](now)
}

// Evict removes key's entry immediately, independent of its TTL. Force
// refresh does not go through Evict: a ForceRefresh request keeps its
// stale entry visible via Peek until the refresh replaces it.
func Evict(c *Cache, key Key) {
	k := key.CacheKey()
	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		c.heap.remove(e.expiry)
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// Limiter returns the per-entry rate limiter for key, creating the entry
// (in its Missing state) if it doesn't exist yet. ProcessRequestFuture's
// single-flight fetch waits on it before every backend call, throttling
// refresh attempts per fingerprint, exactly as the
// teacher throttles per-cache-entry fetches.
func Limiter(c *Cache, key Key) *rate.Limiter {
	k := key.CacheKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryFor(k).limiter
}

// Coordinate runs fn at most once concurrently per key: callers racing on
// the same key block on the same in-flight fn and all observe its result,
// satisfying the invariant that a fingerprint never has more than one live
// refresh. fn is responsible for storing its own result via Store/MarkAbsent
// before returning, since only it knows the result's type.
func Coordinate[V any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (CacheEntry[V], error)) (CacheEntry[V], error) {
	res, err, _ := c.group.Do(key.CacheKey(), func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero CacheEntry[V]
		return zero, err
	}
	return res.(CacheEntry[V]), nil
}

// runExpiryLoop evicts entries as their TTL elapses, mirroring the
// teacher's min-heap-driven expiry watcher.
func (c *Cache) runExpiryLoop() {
	var timer *time.Timer
	for {
		if timer != nil {
			timer.Stop()
		}

		var next *expiryItem
		var expiryCh <-chan time.Time
		c.mu.RLock()
		if len(c.heap.Items) > 0 {
			next = c.heap.Items[0]
			timer = time.NewTimer(time.Until(next.Expires))
			expiryCh = timer.C
		}
		c.mu.RUnlock()

		select {
		case <-c.stopCh:
			return
		case <-c.heap.NotifyCh:
			// entries changed; recompute the next deadline
		case <-expiryCh:
			c.mu.Lock()
			delete(c.entries, next.Key)
			c.heap.remove(next)
			count := len(c.entries)
			c.mu.Unlock()

			metrics.IncrCounter([]string{"gdcf", "cache", "evict_expired"}, 1)
			metrics.SetGauge([]string{"gdcf", "cache", "entries"}, float32(count))
			c.opts.Logger.Trace("evicted expired cache entry", "key", next.Key)
		}
	}
}
