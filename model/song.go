package model

// MainSong is one of the game's built-in soundtrack entries. Unlike a
// NewgroundsSong, it is resolved from a small static table shipped with the
// client rather than fetched through the cache, so it never appears as a
// generic upgrade slot.
type MainSong struct {
	ID     uint8
	Name   string
	Artist string
}

// NewgroundsSong is a user-uploaded custom song, as returned embedded in a
// LevelsRequest response and cached ad-hoc under NewgroundsSongKey.
type NewgroundsSong struct {
	SongID              uint64
	Name                string
	Index               uint64
	ArtistID            uint64
	ArtistName          string
	ArtistVerified      bool
	Size                float64
	YoutubeVideoID      string
	YoutubeDownloadURL  string
	Link                string
}
