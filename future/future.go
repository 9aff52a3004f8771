package future

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gdcf-go/gdcf/apiclient"
	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/gdcferr"
	"github.com/gdcf-go/gdcf/model"
	"github.com/gdcf-go/gdcf/request"
	uuid "github.com/hashicorp/go-uuid"
)

// ErrAlreadyResolved is returned by a second call to Poll on the same
// future. A future is a single-use handle on one refresh decision; callers
// that need the value again should look it up fresh via a new future (or
// call Peek, which never consumes it).
var ErrAlreadyResolved = errors.New("future: already resolved")

// FetchFunc adapts a backend call for Req into its typed result plus any
// side objects (creators, songs) the response embedded. Root-level gdcf
// operations build one of these per request type by composing
// apiclient.MakeRequest with a response-specific harvesting step.
type FetchFunc[Req request.Request, Res any] func(ctx context.Context, req Req) (Res, []model.Creator, []model.NewgroundsSong, error)

// ProcessRequestFuture drives a single request to a resolved cache entry.
// Construct with New; it classifies itself (Uncached/Outdated/UpToDate)
// immediately so callers can branch on State before deciding whether to
// Poll at all.
type ProcessRequestFuture[Req request.Request, Res any] struct {
	mu       sync.Mutex
	state    State
	resolved bool

	c        *cache.Cache
	key      cache.RequestKey
	req      Req
	freshFor time.Duration
	fetch    FetchFunc[Req, Res]
	current  cache.CacheEntry[Res]
}

// New classifies req against its current cache entry and returns a future
// ready to be Polled. freshFor is how long a cached value is served without
// triggering any refresh at all; it is independent of (and must be shorter
// than or equal to) the cache's own hard eviction TTL.
func New[Req request.Request, Res any](c *cache.Cache, kind string, req Req, freshFor time.Duration, fetch FetchFunc[Req, Res]) *ProcessRequestFuture[Req, Res] {
	key := cache.RequestKey{Kind: kind, Fingerprint: req.Fingerprint()}
	entry := cache.Lookup[Res](c, key)
	return &ProcessRequestFuture[Req, Res]{
		state:    classify(entry, freshFor, req.ForceRefresh()),
		c:        c,
		key:      key,
		req:      req,
		freshFor: freshFor,
		fetch:    fetch,
		current:  entry,
	}
}

func classify[V any](entry cache.CacheEntry[V], freshFor time.Duration, forceRefresh bool) State {
	if entry.State == cache.Missing {
		return Uncached
	}
	if forceRefresh {
		return Outdated
	}
	if entry.Meta.Age() >= freshFor {
		return Outdated
	}
	return UpToDate
}

// State reports how New classified this future. It never changes over the
// future's lifetime, even after Poll resolves it.
func (f *ProcessRequestFuture[Req, Res]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Request returns the request this future was built from.
func (f *ProcessRequestFuture[Req, Res]) Request() Req { return f.req }

// Peek returns the last known entry without blocking and without consuming
// the future. Immediately after New it is whatever was in cache (possibly
// Missing); after Poll it is the resolved value.
func (f *ProcessRequestFuture[Req, Res]) Peek() cache.CacheEntry[Res] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Poll drives the future to completion. UpToDate returns the cached value
// with no backend call; Uncached and Outdated both block until a fetch
// completes and return the fresh value. The stale value an Outdated future
// started with is never returned by Poll — only Peek exposes it, and only
// before Poll is called. Poll may be called exactly once per future;
// subsequent calls return ErrAlreadyResolved.
func (f *ProcessRequestFuture[Req, Res]) Poll(ctx context.Context) (cache.CacheEntry[Res], error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		var zero cache.CacheEntry[Res]
		return zero, gdcferr.New(gdcferr.KindCache, "future.Poll", ErrAlreadyResolved)
	}
	f.resolved = true
	state, current := f.state, f.current
	f.mu.Unlock()

	if state == UpToDate {
		return current, nil
	}
	return f.refresh(ctx)
}

// refresh coordinates a single-flight fetch for f's key, stores the
// harvested side objects and the primary result, and updates f.current.
func (f *ProcessRequestFuture[Req, Res]) refresh(ctx context.Context) (cache.CacheEntry[Res], error) {
	entry, err := cache.Coordinate[Res](ctx, f.c, f.key, f.doFetch)
	if err != nil {
		var zero cache.CacheEntry[Res]
		return zero, gdcferr.New(gdcferr.KindAPI, "future.refresh", err)
	}
	f.mu.Lock()
	f.current = entry
	f.mu.Unlock()
	return entry, nil
}

func (f *ProcessRequestFuture[Req, Res]) doFetch(ctx context.Context) (cache.CacheEntry[Res], error) {
	// Another future for the same key may have completed its refresh after
	// this one was classified; serve that result instead of fetching again.
	if latest := cache.Lookup[Res](f.c, f.key); latest.State != cache.Missing && latest.Meta.StoredAt.After(f.current.Meta.StoredAt) {
		return latest, nil
	}
	if werr := cache.Limiter(f.c, f.key).Wait(ctx); werr != nil {
		var zero cache.CacheEntry[Res]
		return zero, werr
	}

	attemptID, err := uuid.GenerateUUID()
	if err != nil {
		attemptID = "unknown"
	}
	logger := f.c.Logger().With("key", f.key.CacheKey(), "attempt", attemptID)
	logger.Trace("fetching")

	res, creators, songs, ferr := f.fetch(ctx, f.req)
	if ferr != nil {
		if apiclient.IsNoData(ferr) {
			logger.Trace("backend reported no data")
			return cache.MarkAbsent[Res](f.c, f.key), nil
		}
		logger.Warn("fetch failed", "error", ferr)
		var zero cache.CacheEntry[Res]
		return zero, ferr
	}

	for _, cr := range creators {
		cache.Store(f.c, cache.CreatorKey{UserID: cr.UserID}, cr)
	}
	for _, s := range songs {
		cache.Store(f.c, cache.NewgroundsSongKey{SongID: s.SongID}, s)
	}

	logger.Trace("fetch succeeded", "creators", len(creators), "songs", len(songs))
	return cache.Store(f.c, f.key, res), nil
}
