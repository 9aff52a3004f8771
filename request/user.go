package request

// UserRequest downloads a single user's profile by account id, mirroring
// boomlings' `getGJUserInfo20.php` endpoint (gdcf/src/api/request/user.rs in
// the original crate).
type UserRequest struct {
	BaseRequest BaseRequest
	AccountID   uint64
	Force       bool
}

// NewUserRequest builds a UserRequest for the given account id.
func NewUserRequest(accountID uint64) UserRequest {
	return UserRequest{AccountID: accountID}
}

func (r UserRequest) Base() BaseRequest  { return r.BaseRequest }
func (r UserRequest) ForceRefresh() bool { return r.Force }

// WithForceRefresh returns a copy of r with the force-refresh flag set.
func (r UserRequest) WithForceRefresh(force bool) UserRequest {
	r.Force = force
	return r
}

func (r UserRequest) Fingerprint() string {
	b := &fingerprintBuilder{}
	b.add("account_id", r.AccountID, r.AccountID == 0)
	return b.build("UserRequest")
}
