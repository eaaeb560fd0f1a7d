package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256RejectsWeakSecret(t *testing.T) {
	t.Parallel()

	_, _, err := jwtx.NewHS256([]byte("short"), "bookstore")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, _, err = jwtx.NewHS256(nil, "bookstore")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, verifier, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	claims := jwtx.NewAccessClaims(42, "alice@example.com", "ADMIN", time.Hour, "bookstore", time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "42", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "ADMIN", got.Role)

	id, err := got.UserID()
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	signer, verifier, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(7, "bob@example.com", "USER", time.Hour, "bookstore", time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = verifier.Verify(tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, _, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)

	_, other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "bookstore")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims(1, "a@b.c", "USER", time.Hour, "bookstore", time.Now()))
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer, verifier, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	token, err := signer.Sign(jwtx.NewAccessClaims(1, "a@b.c", "USER", time.Hour, "bookstore", issued))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer, _, err := jwtx.NewHS256(testSecret, "somewhere-else")
	require.NoError(t, err)

	_, verifier, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims(1, "a@b.c", "USER", time.Hour, "somewhere-else", time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, verifier, err := jwtx.NewHS256(testSecret, "bookstore")
	require.NoError(t, err)

	_, err = verifier.Verify("not.a.jwt")
	require.Error(t, err)

	_, err = verifier.Verify("")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
