package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, VerifyPassword(hash, "pw1"))
	require.False(t, VerifyPassword(hash, "pw2"))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerifyPasswordFailsClosedOnMalformedHash(t *testing.T) {
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
	require.False(t, VerifyPassword("", "anything"))
}
