package cache

import "fmt"

// Key identifies a single cache slot. Two keys that produce the same
// CacheKey string address the same entry.
type Key interface {
	CacheKey() string
}

// RequestKey addresses the entry a top-level request (LevelRequest,
// LevelsRequest, UserRequest...) resolves to. fingerprint is the request's
// own Fingerprint(), already stable across schema growth (see package
// request); kind further namespaces it by request type so that, in
// principle, two unrelated request types could never collide even if a
// future fingerprint implementation got sloppy.
type RequestKey struct {
	Kind        string
	Fingerprint string
}

func (k RequestKey) CacheKey() string {
	return fmt.Sprintf("request/%s/%s", k.Kind, k.Fingerprint)
}

// CreatorKey addresses the side-stored Creator object for a user id,
// populated as a byproduct of list responses that embed creator summaries.
type CreatorKey struct {
	UserID uint64
}

func (k CreatorKey) CacheKey() string {
	return fmt.Sprintf("creator/%d", k.UserID)
}

// NewgroundsSongKey addresses the side-stored NewgroundsSong object for a
// song id, populated the same way as CreatorKey.
type NewgroundsSongKey struct {
	SongID uint64
}

func (k NewgroundsSongKey) CacheKey() string {
	return fmt.Sprintf("song/%d", k.SongID)
}

// UserKey addresses a fully-upgraded User profile, stored when an upgrade
// step resolves a creator id all the way to a profile rather than just a
// Creator summary.
type UserKey struct {
	AccountID uint64
}

func (k UserKey) CacheKey() string {
	return fmt.Sprintf("user/%d", k.AccountID)
}
