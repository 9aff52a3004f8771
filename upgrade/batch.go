package upgrade

import (
	"context"

	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/gdcferr"
	"github.com/gdcf-go/gdcf/model"
)

// SongAll upgrades every element of pls independently, collecting
// per-element failures into a single aggregate error rather than aborting
// the whole batch on the first one — the behavior a list-upgrade operation
// needs, since one level with an unresolvable song shouldn't block the
// other 9 on the same page.
func SongAll[User any](ctx context.Context, c *cache.Cache, resolve SongResolver, pls []model.PartialLevel[model.ThinSong, User]) ([]model.PartialLevel[model.ThickSong, User], error) {
	out := make([]model.PartialLevel[model.ThickSong, User], len(pls))
	var agg gdcferr.Aggregate
	for i, pl := range pls {
		upgraded, _, err := Song[User](ctx, c, resolve, pl)
		if err != nil {
			agg.Add(i, err)
			continue
		}
		out[i] = upgraded
	}
	return out, agg.ErrorOrNil()
}

// CreatorAll is SongAll's counterpart for the creator slot.
func CreatorAll[Song any](ctx context.Context, c *cache.Cache, resolve CreatorResolver, pls []model.PartialLevel[Song, model.ThinCreator]) ([]model.PartialLevel[Song, model.CreatorRef], error) {
	out := make([]model.PartialLevel[Song, model.CreatorRef], len(pls))
	var agg gdcferr.Aggregate
	for i, pl := range pls {
		upgraded, _, err := Creator[Song](ctx, c, resolve, pl)
		if err != nil {
			agg.Add(i, err)
			continue
		}
		out[i] = upgraded
	}
	return out, agg.ErrorOrNil()
}

// UserAll is CreatorAll's counterpart for the final CreatorRef->UserRef step.
func UserAll[Song any](ctx context.Context, c *cache.Cache, resolve UserResolver, pls []model.PartialLevel[Song, model.CreatorRef]) ([]model.PartialLevel[Song, model.UserRef], error) {
	out := make([]model.PartialLevel[Song, model.UserRef], len(pls))
	var agg gdcferr.Aggregate
	for i, pl := range pls {
		upgraded, _, err := User[Song](ctx, c, resolve, pl)
		if err != nil {
			agg.Add(i, err)
			continue
		}
		out[i] = upgraded
	}
	return out, agg.ErrorOrNil()
}
