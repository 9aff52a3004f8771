package model

// The song and creator slots on PartialLevel/Level are type parameters that
// encode the object's current upgrade state (see package upgrade). These
// aliases name the two ends of each slot's upgrade chain.
type (
	// ThinSong is the as-fetched form of the custom-song slot: nil if the
	// level has no custom song, otherwise the song's id.
	ThinSong = *uint64
	// ThickSong is the fully upgraded custom-song slot.
	ThickSong = *NewgroundsSong

	// ThinCreator is the as-fetched form of the creator slot: just the
	// creator's numeric id.
	ThinCreator = uint64
	// CreatorRef is the creator slot upgraded to the lightweight Creator
	// object (one step short of a full User).
	CreatorRef = *Creator
	// UserRef is the creator slot fully upgraded to a complete User profile.
	UserRef = *User
)

// PartialLevel is the data returned for a level as part of a level listing:
// enough to render a browser row, but without the full level geometry data.
// Song and User are the generic upgrade slots for the custom song and the
// creator respectively.
type PartialLevel[Song any, User any] struct {
	LevelID        uint64
	Name           string
	Description    string
	Version        uint32
	Creator        User
	Difficulty     LevelRating
	DemonRating    DemonRating
	Downloads      uint64
	MainSong       *MainSong
	CustomSong     Song
	GDVersion      GameVersion
	Likes          int64
	Length         LevelLength
	Stars          uint8
	Featured       FeaturedState
	CopyOf         *uint64
	CoinAmount     uint8
	CoinsVerified  bool
	StarsRequested uint8
	IsEpic         bool
	ObjectAmount   uint64
}

// Level is the full level data returned by a single-level download, layered
// on top of the same listing fields carried by PartialLevel.
type Level[Song any, User any] struct {
	Base            PartialLevel[Song, User]
	LevelData       string
	Password        LevelPassword
	TimeSinceUpload string
	TimeSinceUpdate string
}

// ChangePartialLevelSong rebinds the song slot of a PartialLevel to a new
// type, preserving every other field and returning the evicted value. It is
// one of the two pure helpers C7 uses to move objects between upgrade
// states and to reverse that move (downgrade).
func ChangePartialLevelSong[OldSong, NewSong, User any](pl PartialLevel[OldSong, User], newSong NewSong) (PartialLevel[NewSong, User], OldSong) {
	evicted := pl.CustomSong
	return PartialLevel[NewSong, User]{
		LevelID:        pl.LevelID,
		Name:           pl.Name,
		Description:    pl.Description,
		Version:        pl.Version,
		Creator:        pl.Creator,
		Difficulty:     pl.Difficulty,
		DemonRating:    pl.DemonRating,
		Downloads:      pl.Downloads,
		MainSong:       pl.MainSong,
		CustomSong:     newSong,
		GDVersion:      pl.GDVersion,
		Likes:          pl.Likes,
		Length:         pl.Length,
		Stars:          pl.Stars,
		Featured:       pl.Featured,
		CopyOf:         pl.CopyOf,
		CoinAmount:     pl.CoinAmount,
		CoinsVerified:  pl.CoinsVerified,
		StarsRequested: pl.StarsRequested,
		IsEpic:         pl.IsEpic,
		ObjectAmount:   pl.ObjectAmount,
	}, evicted
}

// ChangePartialLevelCreator rebinds the creator slot of a PartialLevel to a
// new type, preserving every other field and returning the evicted value.
func ChangePartialLevelCreator[Song, OldUser, NewUser any](pl PartialLevel[Song, OldUser], newCreator NewUser) (PartialLevel[Song, NewUser], OldUser) {
	evicted := pl.Creator
	return PartialLevel[Song, NewUser]{
		LevelID:        pl.LevelID,
		Name:           pl.Name,
		Description:    pl.Description,
		Version:        pl.Version,
		Creator:        newCreator,
		Difficulty:     pl.Difficulty,
		DemonRating:    pl.DemonRating,
		Downloads:      pl.Downloads,
		MainSong:       pl.MainSong,
		CustomSong:     pl.CustomSong,
		GDVersion:      pl.GDVersion,
		Likes:          pl.Likes,
		Length:         pl.Length,
		Stars:          pl.Stars,
		Featured:       pl.Featured,
		CopyOf:         pl.CopyOf,
		CoinAmount:     pl.CoinAmount,
		CoinsVerified:  pl.CoinsVerified,
		StarsRequested: pl.StarsRequested,
		IsEpic:         pl.IsEpic,
		ObjectAmount:   pl.ObjectAmount,
	}, evicted
}

// ChangeLevelSong rebinds the song slot of a Level via its embedded Base.
func ChangeLevelSong[OldSong, NewSong, User any](l Level[OldSong, User], newSong NewSong) (Level[NewSong, User], OldSong) {
	newBase, evicted := ChangePartialLevelSong[OldSong, NewSong, User](l.Base, newSong)
	return Level[NewSong, User]{
		Base:            newBase,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}, evicted
}

// ChangeLevelCreator rebinds the creator slot of a Level via its embedded Base.
func ChangeLevelCreator[Song, OldUser, NewUser any](l Level[Song, OldUser], newCreator NewUser) (Level[Song, NewUser], OldUser) {
	newBase, evicted := ChangePartialLevelCreator[Song, OldUser, NewUser](l.Base, newCreator)
	return Level[Song, NewUser]{
		Base:            newBase,
		LevelData:       l.LevelData,
		Password:        l.Password,
		TimeSinceUpload: l.TimeSinceUpload,
		TimeSinceUpdate: l.TimeSinceUpdate,
	}, evicted
}
