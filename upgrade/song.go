package upgrade

import (
	"context"

	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/gdcferr"
	"github.com/gdcf-go/gdcf/model"
)

// SongResolver is invoked when a level's custom song id isn't already in
// the song side-store. It performs whatever secondary request is needed
// (typically a search scoped to the song id) and returns the resolved song.
type SongResolver func(ctx context.Context, songID uint64) (model.NewgroundsSong, error)

// Song upgrades a PartialLevel's ThinSong slot (a *uint64, nil if the level
// uses no custom song) to its ThickSong form (*model.NewgroundsSong),
// mirroring change_level_song in the original crate's upgrade module: the
// id is replaced by the full object, never discarded, so Downgrade can
// always recover it.
func Song[User any](ctx context.Context, c *cache.Cache, resolve SongResolver, pl model.PartialLevel[model.ThinSong, User]) (model.PartialLevel[model.ThickSong, User], Decision, error) {
	if pl.CustomSong == nil {
		upgraded, _ := model.ChangePartialLevelSong[model.ThinSong, model.ThickSong, User](pl, nil)
		return upgraded, AlreadyThick, nil
	}

	songID := *pl.CustomSong

	if cached, ok := lookupSong(c, songID); ok {
		upgraded, _ := model.ChangePartialLevelSong[model.ThinSong, model.ThickSong, User](pl, &cached)
		return upgraded, Resolved, nil
	}

	song, err := resolve(ctx, songID)
	if err != nil {
		var zero model.PartialLevel[model.ThickSong, User]
		return zero, NeedsFetch, gdcferr.New(gdcferr.KindUpgrade, "upgrade.Song", err)
	}
	cache.Store(c, cache.NewgroundsSongKey{SongID: songID}, song)

	upgraded, _ := model.ChangePartialLevelSong[model.ThinSong, model.ThickSong, User](pl, &song)
	return upgraded, NeedsFetch, nil
}

// DowngradeSong reverses Song, keeping only the song's id.
func DowngradeSong[User any](pl model.PartialLevel[model.ThickSong, User]) model.PartialLevel[model.ThinSong, User] {
	var thin model.ThinSong
	if pl.CustomSong != nil {
		id := pl.CustomSong.SongID
		thin = &id
	}
	downgraded, _ := model.ChangePartialLevelSong[model.ThickSong, model.ThinSong, User](pl, thin)
	return downgraded
}

// LevelSong is Song lifted to the full Level type, upgrading via the
// embedded PartialLevel.
func LevelSong[User any](ctx context.Context, c *cache.Cache, resolve SongResolver, l model.Level[model.ThinSong, User]) (model.Level[model.ThickSong, User], Decision, error) {
	base, decision, err := Song[User](ctx, c, resolve, l.Base)
	if err != nil {
		var zero model.Level[model.ThickSong, User]
		return zero, decision, err
	}
	return model.Level[model.ThickSong, User]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}, decision, nil
}

// DowngradeLevelSong reverses LevelSong.
func DowngradeLevelSong[User any](l model.Level[model.ThickSong, User]) model.Level[model.ThinSong, User] {
	base := DowngradeSong[User](l.Base)
	return model.Level[model.ThinSong, User]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}
}
