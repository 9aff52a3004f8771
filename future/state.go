// Package future implements the refresh-and-serve machinery: given a
// request and its current cache entry, it decides whether the caller must
// wait for a fetch to resolve, or can be served immediately with nothing
// further to do. A stale value is never handed back by Poll; it is
// observable only via Peek, before Poll is called.
package future

// State classifies a ProcessRequestFuture at construction time, before
// Poll is called.
type State int

const (
	// Uncached means no value is cached yet (or ForceRefresh was requested
	// against an empty entry): Poll will block until a fetch completes.
	Uncached State = iota
	// Outdated means a value is cached but has exceeded its freshness
	// window (or ForceRefresh was requested against a populated entry):
	// Poll blocks until a fresh value replaces it, exactly like Uncached.
	// The stale value remains visible via Peek until then.
	Outdated
	// UpToDate means the cached value is still within its freshness
	// window: Poll returns it with no backend call at all.
	UpToDate
)

func (s State) String() string {
	switch s {
	case Uncached:
		return "uncached"
	case Outdated:
		return "outdated"
	case UpToDate:
		return "up_to_date"
	default:
		return "unknown"
	}
}
