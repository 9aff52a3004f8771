// Package upgrade implements the declarative composition of dependency
// fetches that turns a thin, id-only domain object into its thick,
// embedded-object form — and the lossless reverse transform. An upgrade
// step first checks whether the target object is already sitting in cache
// (typically harvested as a side effect of a list request); only on a cache
// miss does it fall back to the resolver the caller supplied.
package upgrade

import (
	"errors"

	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/model"
)

// Decision reports how an upgrade step satisfied one element, which
// callers can use for diagnostics (e.g. counting how often a list's
// harvested side objects were enough versus how often a further request
// had to be made).
type Decision int

const (
	// AlreadyThick means the slot needed no upgrade at all (it was nil, or
	// had no further chain to climb).
	AlreadyThick Decision = iota
	// Resolved means the target object was already cached.
	Resolved
	// NeedsFetch means the target object had to be obtained via the
	// caller-supplied resolver.
	NeedsFetch
)

func (d Decision) String() string {
	switch d {
	case AlreadyThick:
		return "already_thick"
	case Resolved:
		return "resolved"
	case NeedsFetch:
		return "needs_fetch"
	default:
		return "unknown"
	}
}

// ErrNoAccount is returned by User (and LevelUser) when a Creator has no linked
// account id, which the boomlings API represents as an unregistered
// (legacy) creator. Such a creator can never be upgraded past CreatorRef.
var ErrNoAccount = errors.New("upgrade: creator has no linked account")

// lookupCreator and lookupSong are tiny helpers shared by the PartialLevel
// and Level variants in song.go/creator.go.
func lookupSong(c *cache.Cache, songID uint64) (model.NewgroundsSong, bool) {
	entry := cache.Lookup[model.NewgroundsSong](c, cache.NewgroundsSongKey{SongID: songID})
	return entry.Value, entry.State == cache.Cached
}

func lookupCreator(c *cache.Cache, userID uint64) (model.Creator, bool) {
	entry := cache.Lookup[model.Creator](c, cache.CreatorKey{UserID: userID})
	return entry.Value, entry.State == cache.Cached
}

func lookupUser(c *cache.Cache, accountID uint64) (model.User, bool) {
	entry := cache.Lookup[model.User](c, cache.UserKey{AccountID: accountID})
	return entry.Value, entry.State == cache.Cached
}
