package model

// Creator is the lightweight user reference embedded in level listings: an
// id, a name, and (sometimes) the account id needed to look up the full
// User profile.
type Creator struct {
	UserID    uint64
	Name      string
	AccountID *uint64
}

// User is a full player profile, the thickest form a creator reference can
// be upgraded to.
type User struct {
	UserID        uint64
	AccountID     uint64
	Name          string
	Stars         uint64
	Demons        uint64
	CreatorPoints uint64
	Rank          uint64
	YoutubeURL    string
	TwitterURL    string
	TwitchURL     string
}
