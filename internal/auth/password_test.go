package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so two hashes of one password differ.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword(first, "same-password"))
	assert.True(t, CheckPassword(second, "same-password"))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, CheckPassword(strings.Repeat("x", 60), "anything"))
}
