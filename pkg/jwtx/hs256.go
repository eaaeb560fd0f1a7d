package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum accepted HMAC secret size in bytes. Anything
// shorter than the HS256 block output weakens the MAC.
const MinSecretLength = 32

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	// ErrWeakSecret is returned at construction time, never per-call. A
	// service that cannot build a signer must refuse to start.
	ErrWeakSecret = errors.New("jwtx: signing secret missing or too short")
)

// Signer is our interface for anything that can sign access tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier validates a token string and gives back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

type hs256 struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewHS256 builds a Signer+Verifier pair over a single process-wide secret.
// Construction fails on a weak secret; this is the only fatal misconfiguration
// in the token layer.
func NewHS256(secret []byte, issuer string) (Signer, Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, nil, ErrWeakSecret
	}
	s := &hs256{secret: secret, issuer: issuer, leeway: 30 * time.Second}
	return s, s, nil
}

func (s *hs256) Alg() string { return "HS256" }

func (s *hs256) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *hs256) Verify(raw string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return s.secret, nil
	}, jwt.WithLeeway(s.leeway))

	switch {
	case err == nil && parsed.Valid:
		// fallthrough to issuer check below
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, ErrAlgMismatch):
		return Claims{}, ErrAlgMismatch
	default:
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(s.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
