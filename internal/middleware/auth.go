package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/auth"
	"github.com/mobile-bio-lab/lab-service/internal/models"
)

const (
	// TokenCookie is the HTTP-only session cookie set at login.
	TokenCookie = "token"

	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// unauthenticatedMessage is shared by every authentication failure so
// responses don't reveal whether a token was missing, malformed or expired.
const unauthenticatedMessage = "Authentication required"

// RequireAuth extracts the session token from the token cookie (primary) or
// the Authorization: Bearer header (fallback), verifies it, and exposes the
// decoded identity to downstream handlers. Every failure aborts the request.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthenticated(c)
			return
		}

		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated role is
// in the allow-list. The caller's own role appears in the error payload for
// diagnostics.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserRole)
		if !exists {
			abortUnauthenticated(c)
			return
		}

		role, ok := value.(models.UserRole)
		if !ok {
			abortUnauthenticated(c)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success":   false,
			"message":   "Forbidden: insufficient role",
			"user_role": role,
		})
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": unauthenticatedMessage,
	})
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// UserRole returns the authenticated user's role from the gin context.
func UserRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get(ContextUserRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.UserRole)
	return role, ok
}
