package request

// LevelRequest downloads a single level by id, mirroring the boomlings
// `downloadGJLevel22.php` endpoint modelled in the original gdcf crate
// (gdcf/src/api/request/level.rs). Inc and Extra are two client-quirk flags
// the real Geometry Dash client always sends; they default to false and so
// are skipped from the fingerprint unless a caller explicitly sets them.
type LevelRequest struct {
	BaseRequest BaseRequest
	LevelID     uint64
	Inc         bool
	Extra       bool
	Force       bool
}

// NewLevelRequest builds a LevelRequest for the given level id.
func NewLevelRequest(levelID uint64) LevelRequest {
	return LevelRequest{LevelID: levelID}
}

func (r LevelRequest) Base() BaseRequest { return r.BaseRequest }
func (r LevelRequest) ForceRefresh() bool { return r.Force }

// WithForceRefresh returns a copy of r with the force-refresh flag set.
func (r LevelRequest) WithForceRefresh(force bool) LevelRequest {
	r.Force = force
	return r
}

func (r LevelRequest) Fingerprint() string {
	b := &fingerprintBuilder{}
	b.add("level_id", r.LevelID, r.LevelID == 0)
	b.add("inc", r.Inc, r.Inc == false)
	b.add("extra", r.Extra, r.Extra == false)
	return b.build("LevelRequest")
}
