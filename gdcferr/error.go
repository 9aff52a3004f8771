// Package gdcferr defines the error vocabulary shared by the cache,
// apiclient, future and upgrade packages. Callers distinguish failure modes
// with errors.Is/errors.As rather than string matching, the same way the
// teacher's agent/cache package exposes sentinel-ish structured errors
// instead of bare fmt.Errorf strings for conditions callers must branch on.
package gdcferr

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// Kind classifies what stage of the pipeline an Error originated from.
type Kind int

const (
	// KindAPI means the backend/apiclient.Client returned a transport or
	// protocol-level failure.
	KindAPI Kind = iota
	// KindNoData means the backend responded but indicated "no such
	// object" (the boomlings API convention of returning "-1" or similar).
	// This is not a transport failure: the cache may legitimately record
	// it as MarkedAbsent.
	KindNoData
	// KindCache means the cache layer itself refused or failed the
	// operation (e.g. calling Poll twice on an already-resolved future).
	KindCache
	// KindUpgrade means an upgrade step (package upgrade) failed to complete a dependent
	// fetch or to apply its transform.
	KindUpgrade
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindNoData:
		return "no_data"
	case KindCache:
		return "cache"
	case KindUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned by ProcessRequestFuture.Poll
// and by the single-element upgrade functions. Config decoding, apiclient
// and the gdcf resolvers return plain errors, and the batch upgrades return
// an Aggregate. It carries enough structure for callers to branch on Kind
// without parsing message text.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "future.Poll", "upgrade.Song"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gdcf: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gdcf: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NoData reports whether err is (or wraps) a KindNoData Error, the signal
// that a cache entry should be marked absent rather than retried.
func NoData(err error) bool {
	var e *Error
	if asError(err, &e) {
		return e.Kind == KindNoData
	}
	return false
}

// asError is a small errors.As shim kept local to avoid importing errors
// just for this one call site.
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Aggregate collects the per-element failures of a batch upgrade operation
// into a single error, mirroring the multierror pattern the rest of the
// hashicorp stack uses for exactly this shape of problem: many independent
// attempts, some of which fail, all of which the caller wants to see at
// once instead of aborting on the first.
type Aggregate struct {
	merr *multierror.Error
}

// Add appends a non-nil err for the element at index i to the aggregate.
func (a *Aggregate) Add(index int, err error) {
	if err == nil {
		return
	}
	a.merr = multierror.Append(a.merr, fmt.Errorf("element %d: %w", index, err))
}

// ErrorOrNil returns nil if no element failed, or the aggregated error
// otherwise.
func (a *Aggregate) ErrorOrNil() error {
	if a.merr == nil {
		return nil
	}
	return a.merr.ErrorOrNil()
}
