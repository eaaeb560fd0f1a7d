package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Directory is the user/store directory the auth core consults. Concrete
// drivers (sqlite today) implement this. The auth core only reads from it;
// the write helpers exist for operators and tests, and no transaction ever
// spans the directory and the session/cache store.
type Directory interface {
	Users() Users
	Stores() Stores

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user and returns the assigned id.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// ListWithStoreOwnership returns the authorization projection of every
	// user: id, role, and the ids of the stores they manage. This is the
	// bulk feed for the identity cache.
	ListWithStoreOwnership(ctx context.Context) ([]domain.Snapshot, error)
}

type Stores interface {
	// StoreExists reports whether a bookstore with the given id exists.
	// Scope checks against unknown stores must deny, not error.
	StoreExists(ctx context.Context, id int64) (bool, error)

	// CreateStore inserts a new bookstore and returns the assigned id.
	CreateStore(ctx context.Context, name string) (int64, error)

	// AssignManager records that userID manages storeID. Assigning twice
	// is an ErrAlreadyExists.
	AssignManager(ctx context.Context, storeID, userID int64) error
}
