package domain

import "time"

type User struct {
	ID           int64
	Email        string
	PasswordHash string // argon2 encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the public projection of a user returned from login. It never
// carries the password hash.
type Summary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Role: u.Role}
}
