package request

import (
	"fmt"
	"strings"

	"github.com/gdcf-go/gdcf/model"
)

// LevelRequestType selects which listing endpoint semantics a LevelsRequest
// uses (mirrors the `type` field on boomlings' `getGJLevels21.php`, modelled
// in gdcf/src/api/request/level.rs).
type LevelRequestType int

const (
	RequestTypeMostRecent LevelRequestType = iota
	RequestTypeMostDownloaded
	RequestTypeMostLiked
	RequestTypeTrending
	RequestTypeSearch
	RequestTypeUser
	RequestTypeFeatured
	RequestTypeMagic
)

// SearchFilters are the various boolean/id filters the boomlings search
// endpoint accepts. They are only meaningful when RequestType is
// RequestTypeSearch, but (per the original crate) are still part of the
// request's identity so that two searches differing only by filter yield
// distinct cache entries.
type SearchFilters struct {
	Uncompleted  bool
	Completed    bool
	Featured     bool
	Original     bool
	TwoPlayer    bool
	Coins        bool
	Epic         bool
	StarRated    bool
	NoStar       bool
	CustomSongID uint64
}

func (f SearchFilters) isZero() bool { return f == SearchFilters{} }

func (f SearchFilters) String() string {
	return fmt.Sprintf("%+v", struct {
		Uncompleted, Completed, Featured, Original, TwoPlayer, Coins, Epic, StarRated, NoStar bool
		CustomSongID                                                                          uint64
	}{f.Uncompleted, f.Completed, f.Featured, f.Original, f.TwoPlayer, f.Coins, f.Epic, f.StarRated, f.NoStar, f.CustomSongID})
}

// CustomSong returns a copy of f filtering to levels using the given
// newgrounds song id.
func (f SearchFilters) CustomSong(songID uint64) SearchFilters {
	f.CustomSongID = songID
	return f
}

// LevelsRequest retrieves a page of levels matching a search, mirroring
// boomlings' `getGJLevels21.php` (gdcf/src/api/request/level.rs). Page is
// part of the fingerprint: distinct pages of the same search are distinct
// cacheable requests.
type LevelsRequest struct {
	BaseRequest   BaseRequest
	RequestType   LevelRequestType
	SearchString  string
	Lengths       []model.LevelLength
	Ratings       []model.LevelRating
	DemonRating   *model.DemonRating
	PageNum       uint32
	Total         int32
	SearchFilters SearchFilters
	Force         bool
}

// NewLevelsRequest returns a LevelsRequest for page 0 of the most-recent
// listing, the same default the original crate's `Default` derive produced.
func NewLevelsRequest() LevelsRequest {
	return LevelsRequest{}
}

// WithID restricts the search to a single level id, expressed (as in the
// original API) as a one-element search-string filter.
func (r LevelsRequest) WithID(levelID uint64) LevelsRequest {
	r.RequestType = RequestTypeSearch
	r.SearchString = fmt.Sprintf("%d", levelID)
	return r
}

func (r LevelsRequest) WithFilters(f SearchFilters) LevelsRequest {
	r.SearchFilters = f
	return r
}

func (r LevelsRequest) WithRequestType(t LevelRequestType) LevelsRequest {
	r.RequestType = t
	return r
}

func (r LevelsRequest) WithSearch(s string) LevelsRequest {
	r.SearchString = s
	r.RequestType = RequestTypeSearch
	return r
}

func (r LevelsRequest) WithForceRefresh(force bool) LevelsRequest {
	r.Force = force
	return r
}

func (r LevelsRequest) Base() BaseRequest  { return r.BaseRequest }
func (r LevelsRequest) ForceRefresh() bool { return r.Force }

// Page implements request.Paginable.
func (r LevelsRequest) Page() uint32 { return r.PageNum }

// NextPage implements request.Paginable: it returns a new request for the
// following page without mutating r.
func (r LevelsRequest) NextPage() LevelsRequest {
	r.PageNum++
	return r
}

func (r LevelsRequest) Fingerprint() string {
	b := &fingerprintBuilder{}
	b.add("request_type", int(r.RequestType), r.RequestType == RequestTypeMostRecent)
	b.add("search_string", r.SearchString, r.SearchString == "")
	if len(r.Lengths) > 0 {
		b.add("lengths", fmt.Sprint(r.Lengths), false)
	}
	if len(r.Ratings) > 0 {
		b.add("ratings", fmt.Sprint(r.Ratings), false)
	}
	if r.DemonRating != nil {
		b.add("demon_rating", int(*r.DemonRating), false)
	}
	b.add("page", r.PageNum, r.PageNum == 0)
	b.add("total", r.Total, r.Total == 0)
	if !r.SearchFilters.isZero() {
		b.add("search_filters", r.SearchFilters.String(), false)
	}
	return strings.Join([]string{b.build("LevelsRequest")}, "")
}
