// Package gdcf is the root of the Geometry Dash Caching Framework: a typed
// request/response cache with freshness-aware refresh-and-serve semantics,
// plus an upgrade engine that turns thin, id-only level/user references
// into their fully embedded forms. It implements no HTTP transport, no
// wire-format parser and no storage backend of its own — callers supply an
// apiclient.Client and everything downstream of "decoded Go value" is this
// package's job.
package gdcf

import (
	"context"
	"fmt"
	"time"

	"github.com/gdcf-go/gdcf/apiclient"
	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/future"
	"github.com/gdcf-go/gdcf/internal/config"
	"github.com/gdcf-go/gdcf/model"
	"github.com/gdcf-go/gdcf/request"
	"github.com/gdcf-go/gdcf/upgrade"
	"golang.org/x/time/rate"
)

const (
	kindLevel  = "level"
	kindLevels = "levels"
	kindUser   = "user"
)

// Freshness configures, per request type, how long a cached value is
// served before Poll must block on a refresh. It is independent of (and
// should be no larger than) the Cache's own hard eviction TTL.
type Freshness struct {
	Level  time.Duration
	Levels time.Duration
	User   time.Duration
}

// DefaultFreshness matches the polling intervals the original desktop
// client effectively gets away with: levels and listings rarely change
// within half a minute, profiles even less often.
func DefaultFreshness() Freshness {
	return Freshness{
		Level:  30 * time.Second,
		Levels: 30 * time.Second,
		User:   2 * time.Minute,
	}
}

// Handle ties an apiclient.Client to a Cache and is the entry point for
// every operation in this package. Construct with New.
type Handle struct {
	client apiclient.Client
	cache  *cache.Cache
	fresh  Freshness
}

// New constructs a Handle. The cache is created (and its background expiry
// loop started) as part of construction; call Close to release it.
func New(client apiclient.Client, cacheOpts cache.Options, fresh Freshness) *Handle {
	return &Handle{
		client: client,
		cache:  cache.New(cacheOpts),
		fresh:  fresh,
	}
}

// NewFromConfig builds a Handle from a loosely-typed config map, such as one
// produced by unmarshaling HCL or JSON into map[string]any — the same
// decode-then-construct pattern the rest of the hashicorp stack uses to turn
// a config file into a running component. Unrecognized keys are rejected.
func NewFromConfig(client apiclient.Client, raw map[string]any) (*Handle, error) {
	cfg, err := config.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("gdcf: decoding config: %w", err)
	}
	ttl, level, levels, user, err := cfg.Durations()
	if err != nil {
		return nil, fmt.Errorf("gdcf: parsing config durations: %w", err)
	}
	opts := cache.Options{
		TTL:                ttl,
		EntryFetchRate:     rate.Limit(cfg.EntryFetchRate),
		EntryFetchMaxBurst: cfg.EntryFetchMaxBurst,
		WarnOnIntegrityGap: cfg.WarnOnIntegrityGap,
	}
	return New(client, opts, Freshness{Level: level, Levels: levels, User: user}), nil
}

// Close stops the Handle's cache background loop.
func (h *Handle) Close() error { return h.cache.Close() }

// Cache exposes the underlying cache, primarily so tests and diagnostics
// can inspect entries directly without going through a future.
func (h *Handle) Cache() *cache.Cache { return h.cache }

func (h *Handle) levelFetch(ctx context.Context, req request.LevelRequest) (model.Level[model.ThinSong, model.ThinCreator], []model.Creator, []model.NewgroundsSong, error) {
	res, err := apiclient.MakeRequest[model.Level[model.ThinSong, model.ThinCreator]](ctx, h.client, req)
	if err != nil {
		return model.Level[model.ThinSong, model.ThinCreator]{}, nil, nil, err
	}
	return res, nil, nil, nil
}

func (h *Handle) levelsFetch(ctx context.Context, req request.LevelsRequest) ([]model.PartialLevel[model.ThinSong, model.ThinCreator], []model.Creator, []model.NewgroundsSong, error) {
	res, err := apiclient.MakeRequest[apiclient.ListResult[model.PartialLevel[model.ThinSong, model.ThinCreator]]](ctx, h.client, req)
	if err != nil {
		return nil, nil, nil, err
	}
	h.checkSongIntegrity(res.Items, res.Songs)
	return res.Items, res.Creators, res.Songs, nil
}

// checkSongIntegrity surfaces a missing custom song as an observable
// diagnostic: when Options.WarnOnIntegrityGap is set, it logs a warning for
// any level whose custom song id wasn't harvested from this same response
// and also isn't already in the song side-store, rather than silently
// leaving the gap to surface later as a failed upgrade.
func (h *Handle) checkSongIntegrity(items []model.PartialLevel[model.ThinSong, model.ThinCreator], songs []model.NewgroundsSong) {
	if !h.cache.WarnOnIntegrityGap() {
		return
	}
	harvested := make(map[uint64]struct{}, len(songs))
	for _, s := range songs {
		harvested[s.SongID] = struct{}{}
	}
	for _, it := range items {
		if it.CustomSong == nil {
			continue
		}
		if _, ok := harvested[*it.CustomSong]; ok {
			continue
		}
		if cache.Lookup[model.NewgroundsSong](h.cache, cache.NewgroundsSongKey{SongID: *it.CustomSong}).State == cache.Cached {
			continue
		}
		h.cache.Logger().Warn("integrity gap: level references a custom song absent from this response and the cache",
			"level_id", it.LevelID, "song_id", *it.CustomSong)
	}
}

func (h *Handle) userFetch(ctx context.Context, req request.UserRequest) (model.User, []model.Creator, []model.NewgroundsSong, error) {
	res, err := apiclient.MakeRequest[model.User](ctx, h.client, req)
	if err != nil {
		return model.User{}, nil, nil, err
	}
	return res, nil, nil, nil
}

// Level resolves a single level, in its thin (as-fetched) form. Use the
// Upgrade* helpers to embed its custom song and creator.
func Level(h *Handle, req request.LevelRequest) *future.ProcessRequestFuture[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]] {
	return future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](h.cache, kindLevel, req, h.fresh.Level, h.levelFetch)
}

// Levels resolves one page of a level listing, in thin form, harvesting any
// embedded creators and songs into the cache's side-stores as a byproduct.
func Levels(h *Handle, req request.LevelsRequest) *future.ProcessRequestFuture[request.LevelsRequest, []model.PartialLevel[model.ThinSong, model.ThinCreator]] {
	return future.New[request.LevelsRequest, []model.PartialLevel[model.ThinSong, model.ThinCreator]](h.cache, kindLevels, req, h.fresh.Levels, h.levelsFetch)
}

// LevelsStream walks every page of a listing starting at first, advancing
// automatically and terminating cleanly once the backend reports no more
// pages.
func LevelsStream(h *Handle, first request.LevelsRequest) *future.PageStream[request.LevelsRequest, []model.PartialLevel[model.ThinSong, model.ThinCreator]] {
	return future.NewPageStream[request.LevelsRequest, []model.PartialLevel[model.ThinSong, model.ThinCreator]](h.cache, kindLevels, first, h.fresh.Levels, h.levelsFetch)
}

// User resolves a single user's full profile by account id.
func User(h *Handle, req request.UserRequest) *future.ProcessRequestFuture[request.UserRequest, model.User] {
	return future.New[request.UserRequest, model.User](h.cache, kindUser, req, h.fresh.User, h.userFetch)
}

// resolveSong satisfies a SongResolver by searching the listing endpoint
// for the song id and relying on the harvested side objects that search
// populates. There is no dedicated "song by id" endpoint in the underlying
// protocol, so this is necessarily indirect; callers with a cheaper way to
// resolve a song should pass their own resolver to the Upgrade* functions
// in package upgrade directly instead of these convenience wrappers.
func (h *Handle) resolveSong(ctx context.Context, songID uint64) (model.NewgroundsSong, error) {
	req := request.NewLevelsRequest().WithFilters(request.SearchFilters{}.CustomSong(songID))
	entry, err := Levels(h, req).Poll(ctx)
	if err != nil {
		return model.NewgroundsSong{}, err
	}
	if entry.State != cache.Cached {
		return model.NewgroundsSong{}, fmt.Errorf("gdcf: no levels found using song %d", songID)
	}
	song := cache.Lookup[model.NewgroundsSong](h.cache, cache.NewgroundsSongKey{SongID: songID})
	if song.State != cache.Cached {
		return model.NewgroundsSong{}, fmt.Errorf("gdcf: song %d not present in search results", songID)
	}
	return song.Value, nil
}

// resolveUser satisfies a CreatorResolver/UserResolver pair's final step by
// issuing a UserRequest, the one dedicated endpoint the protocol offers for
// resolving a creator past its embedded summary.
func (h *Handle) resolveUser(ctx context.Context, accountID uint64) (model.User, error) {
	entry, err := User(h, request.NewUserRequest(accountID)).Poll(ctx)
	if err != nil {
		return model.User{}, err
	}
	if entry.State != cache.Cached {
		return model.User{}, fmt.Errorf("gdcf: user %d not found", accountID)
	}
	return entry.Value, nil
}

// UpgradePartialLevelSong upgrades pl's custom song slot in place.
func (h *Handle) UpgradePartialLevelSong(ctx context.Context, pl model.PartialLevel[model.ThinSong, model.ThinCreator]) (model.PartialLevel[model.ThickSong, model.ThinCreator], upgrade.Decision, error) {
	return upgrade.Song[model.ThinCreator](ctx, h.cache, h.resolveSong, pl)
}

// UpgradePartialLevelCreator upgrades pl's creator slot to a CreatorRef.
func (h *Handle) UpgradePartialLevelCreator(ctx context.Context, pl model.PartialLevel[model.ThinSong, model.ThinCreator]) (model.PartialLevel[model.ThinSong, model.CreatorRef], upgrade.Decision, error) {
	return upgrade.Creator[model.ThinSong](ctx, h.cache, h.noCreatorEndpoint, pl)
}

// UpgradePartialLevelUser upgrades pl's creator slot all the way to a full
// UserRef, assuming it is already a CreatorRef (i.e. UpgradePartialLevelCreator
// ran first).
func (h *Handle) UpgradePartialLevelUser(ctx context.Context, pl model.PartialLevel[model.ThinSong, model.CreatorRef]) (model.PartialLevel[model.ThinSong, model.UserRef], upgrade.Decision, error) {
	return upgrade.User[model.ThinSong](ctx, h.cache, h.resolveUser, pl)
}

// UpgradeLevelSong is UpgradePartialLevelSong lifted to Level.
func (h *Handle) UpgradeLevelSong(ctx context.Context, l model.Level[model.ThinSong, model.ThinCreator]) (model.Level[model.ThickSong, model.ThinCreator], upgrade.Decision, error) {
	return upgrade.LevelSong[model.ThinCreator](ctx, h.cache, h.resolveSong, l)
}

// UpgradeLevelCreator is UpgradePartialLevelCreator lifted to Level.
func (h *Handle) UpgradeLevelCreator(ctx context.Context, l model.Level[model.ThinSong, model.ThinCreator]) (model.Level[model.ThinSong, model.CreatorRef], upgrade.Decision, error) {
	return upgrade.LevelCreator[model.ThinSong](ctx, h.cache, h.noCreatorEndpoint, l)
}

// UpgradeLevelUser is UpgradePartialLevelUser lifted to Level.
func (h *Handle) UpgradeLevelUser(ctx context.Context, l model.Level[model.ThinSong, model.CreatorRef]) (model.Level[model.ThinSong, model.UserRef], upgrade.Decision, error) {
	return upgrade.LevelUser[model.ThinSong](ctx, h.cache, h.resolveUser, l)
}

// noCreatorEndpoint is the default CreatorResolver: the protocol has no
// dedicated "creator by id" call, so a creator id that wasn't already
// harvested from a list response cannot be resolved without the caller
// supplying their own resolver (e.g. one backed by a persisted mapping).
func (h *Handle) noCreatorEndpoint(ctx context.Context, userID uint64) (model.Creator, error) {
	return model.Creator{}, fmt.Errorf("gdcf: creator %d not available from cache and no creator endpoint exists; supply a custom upgrade.CreatorResolver", userID)
}
