package domain

// Snapshot is the cached authorization projection of a user: just enough to
// make an allow/deny decision without touching the directory per request.
// Absence of a snapshot means "unknown", never "implicitly allowed".
type Snapshot struct {
	ID       int64   `json:"id"`
	Role     Role    `json:"role"`
	StoreIDs []int64 `json:"store_ids,omitempty"`
}

// ManagesStore reports whether the snapshot's owner manages the given store.
func (s Snapshot) ManagesStore(storeID int64) bool {
	for _, id := range s.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}
