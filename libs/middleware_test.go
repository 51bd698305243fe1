package libs

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *TokenService, apiKey string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens, apiKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	return r
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	tokens := NewTokenService("test-secret", 30*time.Minute)
	token, err := tokens.Issue(TokenClaims{Email: "a@b.com", Name: "A", UserID: "u1"})
	require.NoError(t, err)

	r := protectedRouter(tokens, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestAuthMiddlewareRejects(t *testing.T) {
	tokens := NewTokenService("test-secret", 30*time.Minute)
	token, err := tokens.Issue(TokenClaims{Email: "a@b.com", Name: "A", UserID: "u1"})
	require.NoError(t, err)

	r := protectedRouter(tokens, "")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "valid token without scheme", header: token},
		{name: "valid token with wrong scheme", header: "Token " + token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareAPIKey(t *testing.T) {
	tokens := NewTokenService("test-secret", 30*time.Minute)
	r := protectedRouter(tokens, "shared-key")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("x-api-key", "shared-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("x-api-key", "wrong-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
