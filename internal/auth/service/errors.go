package service

import "errors"

// Error taxonomy for the auth core. Credential and token failures are
// deliberately coarse: callers can tell the class of failure apart but never
// which internal check tripped.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrTokenMissing is a logout attempt without a bearer token.
	ErrTokenMissing = errors.New("token_missing")

	// ErrTokenInvalid covers signature failure, expiry, and absence from
	// the session store, surfaced identically.
	ErrTokenInvalid = errors.New("token_invalid")

	// ErrUnauthorized is a decision-engine deny, including cache misses.
	ErrUnauthorized = errors.New("unauthorized")
)
