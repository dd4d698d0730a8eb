package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/auth"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{RequireAuth(testSecret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := UserID(c)
		role, _ := UserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": role})
	})
	router.GET("/protected", chain...)
	return router
}

func issueTestToken(t *testing.T, role models.UserRole, ttl time.Duration) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, ttl, 42, "user@vu.edu", role)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, unauthenticatedMessage, body["message"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Same message as a missing token: the response must not reveal why
	// authentication failed.
	assert.Equal(t, unauthenticatedMessage, decodeBody(t, w)["message"])
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router := newAuthRouter()
	token := issueTestToken(t, models.RoleStudent, -time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, unauthenticatedMessage, decodeBody(t, w)["message"])
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	router := newAuthRouter()
	token := issueTestToken(t, models.RoleStudent, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(42), body["user_id"])
	assert.Equal(t, "student", body["role"])
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	router := newAuthRouter()
	token := issueTestToken(t, models.RoleTechnician, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "technician", decodeBody(t, w)["role"])
}

func TestRequireRoles_Allowed(t *testing.T) {
	router := newAuthRouter(RequireRoles(models.RoleAdmin))
	token := issueTestToken(t, models.RoleAdmin, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_Forbidden(t *testing.T) {
	router := newAuthRouter(RequireRoles(models.RoleAdmin))
	token := issueTestToken(t, models.RoleStudent, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "student", body["user_role"])
}

func TestRequireRoles_WithoutAuthContext(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
