package domain

// Role is the coarse access level assigned to a user. There are exactly three
// and they are stored as their string form everywhere (directory rows, token
// claims, cached snapshots).
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleStoreManager Role = "STORE_MANAGER"
	RoleUser         Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreManager, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
