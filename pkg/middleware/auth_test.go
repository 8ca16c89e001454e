package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot-catalog/backend/pkg/errors"
	"chatbot-catalog/backend/pkg/jwt"
	"chatbot-catalog/backend/pkg/logger"
)

func authTestRouter(t *testing.T, extra ...gin.HandlerFunc) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error"})
	jwtService := jwt.NewService("test-secret", time.Hour)

	r := gin.New()
	r.Use(errors.ErrorHandler())

	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(jwtService, log)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := c.Get("userId")
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	r.GET("/protected", handlers...)

	return r, jwtService
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	r, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REQUIRED")
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	r, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	r, jwtService := authTestRouter(t)

	token, err := jwtService.GenerateToken(7, "user@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestRequireRoleForbidden(t *testing.T) {
	r, jwtService := authTestRouter(t, RequireRole(jwt.RoleAdmin))

	token, err := jwtService.GenerateToken(7, "user@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAdminPasses(t *testing.T) {
	r, jwtService := authTestRouter(t, RequireRole(jwt.RoleAdmin))

	token, err := jwtService.GenerateToken(1, "admin@example.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
