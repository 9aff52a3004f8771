// Package request declares the typed, fingerprintable descriptors that the
// framework turns into backend calls: LevelRequest, LevelsRequest and
// UserRequest. A fingerprint is stable across schema growth (it excludes the
// base field and any field left at its zero value) per the framework's
// invariant that adding a field to a request must not change the fingerprint
// of requests that never set it.
package request

import "github.com/gdcf-go/gdcf/model"

// BaseRequest carries the per-call authentication/version context that every
// request needs but that never participates in the cache key: two requests
// that differ only in game version, client version or secret are the same
// cache entry.
type BaseRequest struct {
	GameVersion   model.GameVersion
	ClientVersion model.GameVersion
	Secret        string
}

// Request is the capability every request descriptor provides: access to its
// base fields, its force-refresh flag, and its cache fingerprint.
type Request interface {
	Base() BaseRequest
	ForceRefresh() bool
	Fingerprint() string
}

// Paginable is implemented by request types that can be stepped one page at
// a time by the streaming adapter (C8, future.PageStream).
// ProcessRequestFuture has no page-stepping method of its own. NextPage
// returns a new request value for the following page;
// it never mutates the receiver, since requests are immutable once used.
type Paginable[Req any] interface {
	Request
	Page() uint32
	NextPage() Req
}
