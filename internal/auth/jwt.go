package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mobile-bio-lab/lab-service/internal/models"
)

const issuer = "mobile-bio-lab"

// expiryLeeway absorbs small clock skew between the issuing and verifying
// host so tokens are not rejected right at the boundary.
const expiryLeeway = 5 * time.Second

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a time-bounded HS256 credential carrying the user's
// identity and role. Rotating the secret invalidates all outstanding tokens.
func IssueToken(secret string, ttl time.Duration, userID uint, email string, role models.UserRole) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the decoded claims.
// Any failure (malformed, bad signature, expired) comes back as an error;
// callers must not distinguish between them in responses.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(expiryLeeway))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
