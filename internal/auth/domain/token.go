package domain

// LoginResult is what a successful login returns: the signed session token
// and a summary of who it was issued to.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        Summary `json:"user"`
}

// AuthorizedIdentity is the outcome of a successful authorize call. It is the
// cached snapshot plus the email carried in the token claims, handed to the
// caller so downstream handlers don't re-resolve the identity.
type AuthorizedIdentity struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	StoreIDs []int64 `json:"store_ids,omitempty"`
}
