package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same password"))
	assert.True(t, VerifyPassword(h2, "same password"))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("not-a-hash", "anything"))
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("$argon2id$v=19$m=65536,t=3,p=4$bogus", "anything"))
}
