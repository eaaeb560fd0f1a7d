package service

import (
	"slices"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
)

// ScopeCheck asks the decision engine to verify store-level access on top of
// the role gate.
type ScopeCheck struct {
	StoreID int64
}

// Decision is the outcome of an access-control check. Reason is set only on
// deny and is meant for logs, never for the caller-facing error.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide is the access-control decision procedure. It is a pure function of
// its inputs:
//
//  1. no snapshot: deny (unknown identities never pass)
//  2. no required roles: allow (role gate not applicable)
//  3. role not in the required set: deny, scope never evaluated
//  4. no scope check requested: the role result stands
//  5. scope check + STORE_MANAGER: the store must be in the managed set
//  6. scope check + any other role: the role result stands; the per-store
//     restriction only binds the scoped role
//
// A STORE_MANAGER with an empty managed set always fails a scope check.
func Decide(snap *domain.Snapshot, requiredRoles []domain.Role, scope *ScopeCheck) Decision {
	if snap == nil {
		return deny("unknown identity")
	}

	if len(requiredRoles) == 0 {
		return allow()
	}

	if !slices.Contains(requiredRoles, snap.Role) {
		return deny("role not permitted")
	}

	if scope == nil || snap.Role != domain.RoleStoreManager {
		return allow()
	}

	if !snap.ManagesStore(scope.StoreID) {
		return deny("store not managed")
	}
	return allow()
}
