package future

import (
	"context"
	"time"

	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/request"
)

// PageStream walks a Paginable request one page at a time, advancing via
// NextPage and terminating cleanly the first time a page resolves to
// MarkedAbsent — the same convention boomlings uses to say "no more pages"
// that a plain NoData response uses to say "no such object".
type PageStream[Req request.Paginable[Req], Res any] struct {
	c        *cache.Cache
	kind     string
	freshFor time.Duration
	fetch    FetchFunc[Req, Res]
	next     Req
	done     bool
}

// NewPageStream builds a stream starting at first (typically page 0).
func NewPageStream[Req request.Paginable[Req], Res any](c *cache.Cache, kind string, first Req, freshFor time.Duration, fetch FetchFunc[Req, Res]) *PageStream[Req, Res] {
	return &PageStream[Req, Res]{c: c, kind: kind, freshFor: freshFor, fetch: fetch, next: first}
}

// Next resolves the following page. done is true once there are no more
// pages; in that case entry is the zero value and should be ignored.
func (s *PageStream[Req, Res]) Next(ctx context.Context) (entry cache.CacheEntry[Res], done bool, err error) {
	if s.done {
		return cache.CacheEntry[Res]{}, true, nil
	}

	pf := New[Req, Res](s.c, s.kind, s.next, s.freshFor, s.fetch)
	entry, err = pf.Poll(ctx)
	if err != nil {
		return cache.CacheEntry[Res]{}, false, err
	}
	if entry.State == cache.MarkedAbsent {
		s.done = true
		return cache.CacheEntry[Res]{}, true, nil
	}

	s.next = s.next.NextPage()
	return entry, false, nil
}
