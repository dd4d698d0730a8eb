package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, 42, "alice@vu.edu", models.RoleResearcher)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@vu.edu", claims.Email)
	assert.Equal(t, models.RoleResearcher, claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, 1, "bob@vu.edu", models.RoleStudent)
	require.NoError(t, err)

	_, err = ParseToken("a-different-secret", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	// Expired beyond the clock-skew leeway.
	token, err := IssueToken(testSecret, -time.Minute, 1, "bob@vu.edu", models.RoleStudent)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WithinLeeway(t *testing.T) {
	// Just past expiry but inside the leeway window should still verify.
	token, err := IssueToken(testSecret, -time.Second, 7, "carol@vu.edu", models.RoleTechnician)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestParseToken_Malformed(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)

	_, err = ParseToken(testSecret, "")
	assert.Error(t, err)
}

func TestParseToken_RejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 99,
		Email:  "mallory@vu.edu",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}
