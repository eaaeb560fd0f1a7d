package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepperPath(filepath.Join(testTempDir(), "pepper"))
	m.Run()
}

func testTempDir() string {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	return dir
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t,
		cryptox.VerifyPassword("wrong password", hash),
		cryptox.ErrPasswordMismatch,
	)
}

func TestHashesAreSalted(t *testing.T) {
	a, err := cryptox.HashPassword("same input")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same input")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.NoError(t, cryptox.VerifyPassword("same input", a))
	require.NoError(t, cryptox.VerifyPassword("same input", b))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cases := []string{
		"",
		"not-a-phc-string",
		"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!$aGFzaA",
	}
	for _, encoded := range cases {
		require.Error(t, cryptox.VerifyPassword("anything", encoded))
	}
}
