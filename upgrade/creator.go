package upgrade

import (
	"context"

	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/gdcferr"
	"github.com/gdcf-go/gdcf/model"
)

// CreatorResolver resolves a creator id to its lightweight Creator
// summary, invoked only when the creator side-store hasn't already been
// populated by a list response.
type CreatorResolver func(ctx context.Context, userID uint64) (model.Creator, error)

// UserResolver resolves an account id to a full User profile, the second
// step of the creator upgrade chain.
type UserResolver func(ctx context.Context, accountID uint64) (model.User, error)

// Creator upgrades a PartialLevel's ThinCreator slot (a bare user id) to
// CreatorRef, mirroring change_level_user's first half in the original
// crate.
func Creator[Song any](ctx context.Context, c *cache.Cache, resolve CreatorResolver, pl model.PartialLevel[Song, model.ThinCreator]) (model.PartialLevel[Song, model.CreatorRef], Decision, error) {
	userID := pl.Creator

	if cached, ok := lookupCreator(c, userID); ok {
		upgraded, _ := model.ChangePartialLevelCreator[Song, model.ThinCreator, model.CreatorRef](pl, &cached)
		return upgraded, Resolved, nil
	}

	cr, err := resolve(ctx, userID)
	if err != nil {
		var zero model.PartialLevel[Song, model.CreatorRef]
		return zero, NeedsFetch, gdcferr.New(gdcferr.KindUpgrade, "upgrade.Creator", err)
	}
	cache.Store(c, cache.CreatorKey{UserID: userID}, cr)

	upgraded, _ := model.ChangePartialLevelCreator[Song, model.ThinCreator, model.CreatorRef](pl, &cr)
	return upgraded, NeedsFetch, nil
}

// DowngradeCreator reverses Creator, keeping only the creator's user id.
func DowngradeCreator[Song any](pl model.PartialLevel[Song, model.CreatorRef]) model.PartialLevel[Song, model.ThinCreator] {
	var userID model.ThinCreator
	if pl.Creator != nil {
		userID = pl.Creator.UserID
	}
	downgraded, _ := model.ChangePartialLevelCreator[Song, model.CreatorRef, model.ThinCreator](pl, userID)
	return downgraded
}

// User upgrades a PartialLevel's CreatorRef slot to UserRef, the second
// half of change_level_user. A Creator with no linked account (an
// unregistered, legacy creator) cannot be upgraded further and yields
// ErrNoAccount.
func User[Song any](ctx context.Context, c *cache.Cache, resolve UserResolver, pl model.PartialLevel[Song, model.CreatorRef]) (model.PartialLevel[Song, model.UserRef], Decision, error) {
	if pl.Creator == nil || pl.Creator.AccountID == nil {
		var zero model.PartialLevel[Song, model.UserRef]
		return zero, AlreadyThick, gdcferr.New(gdcferr.KindUpgrade, "upgrade.User", ErrNoAccount)
	}
	accountID := *pl.Creator.AccountID

	if cached, ok := lookupUser(c, accountID); ok {
		upgraded, _ := model.ChangePartialLevelCreator[Song, model.CreatorRef, model.UserRef](pl, &cached)
		return upgraded, Resolved, nil
	}

	u, err := resolve(ctx, accountID)
	if err != nil {
		var zero model.PartialLevel[Song, model.UserRef]
		return zero, NeedsFetch, gdcferr.New(gdcferr.KindUpgrade, "upgrade.User", err)
	}
	cache.Store(c, cache.UserKey{AccountID: accountID}, u)

	upgraded, _ := model.ChangePartialLevelCreator[Song, model.CreatorRef, model.UserRef](pl, &u)
	return upgraded, NeedsFetch, nil
}

// DowngradeUser reverses User, collapsing a UserRef back to the CreatorRef
// it was derived from.
func DowngradeUser[Song any](pl model.PartialLevel[Song, model.UserRef]) model.PartialLevel[Song, model.CreatorRef] {
	var cr model.CreatorRef
	if pl.Creator != nil {
		accountID := pl.Creator.AccountID
		cr = &model.Creator{UserID: pl.Creator.UserID, Name: pl.Creator.Name, AccountID: &accountID}
	}
	downgraded, _ := model.ChangePartialLevelCreator[Song, model.UserRef, model.CreatorRef](pl, cr)
	return downgraded
}

// LevelCreator is Creator lifted to the full Level type.
func LevelCreator[Song any](ctx context.Context, c *cache.Cache, resolve CreatorResolver, l model.Level[Song, model.ThinCreator]) (model.Level[Song, model.CreatorRef], Decision, error) {
	base, decision, err := Creator[Song](ctx, c, resolve, l.Base)
	if err != nil {
		var zero model.Level[Song, model.CreatorRef]
		return zero, decision, err
	}
	return model.Level[Song, model.CreatorRef]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}, decision, nil
}

// DowngradeLevelCreator reverses LevelCreator.
func DowngradeLevelCreator[Song any](l model.Level[Song, model.CreatorRef]) model.Level[Song, model.ThinCreator] {
	base := DowngradeCreator[Song](l.Base)
	return model.Level[Song, model.ThinCreator]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}
}

// LevelUser is User lifted to the full Level type.
func LevelUser[Song any](ctx context.Context, c *cache.Cache, resolve UserResolver, l model.Level[Song, model.CreatorRef]) (model.Level[Song, model.UserRef], Decision, error) {
	base, decision, err := User[Song](ctx, c, resolve, l.Base)
	if err != nil {
		var zero model.Level[Song, model.UserRef]
		return zero, decision, err
	}
	return model.Level[Song, model.UserRef]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}, decision, nil
}

// DowngradeLevelUser reverses LevelUser.
func DowngradeLevelUser[Song any](l model.Level[Song, model.UserRef]) model.Level[Song, model.CreatorRef] {
	base := DowngradeUser[Song](l.Base)
	return model.Level[Song, model.CreatorRef]{
		Base:            base,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}
}
