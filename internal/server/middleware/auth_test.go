package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/crmsync/internal/server/handlers"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:          []byte("test-secret-key"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

// forbiddenHandler fails the test if the request reaches it
func forbiddenHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtConfig := testJWTConfig()

	token, _, err := jwtConfig.GenerateAccessToken("user123", "testuser")
	require.NoError(t, err)

	// Handler проверяет, что claims попали в контекст
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok, "user_id should be in context")
		assert.Equal(t, "user123", userID)

		username, ok := handlers.GetUsername(r.Context())
		require.True(t, ok, "username should be in context")
		assert.Equal(t, "testuser", username)

		w.WriteHeader(http.StatusOK)
	})

	wrapped := AuthMiddleware(setupTestLogger(), jwtConfig)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	wrapped := AuthMiddleware(setupTestLogger(), testJWTConfig())(forbiddenHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	// No Authorization header

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing token")
	// Ошибка в том же JSON формате, что и у handlers
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestAuthMiddleware_InvalidAuthHeaderFormat(t *testing.T) {
	wrapped := AuthMiddleware(setupTestLogger(), testJWTConfig())(forbiddenHandler(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no Bearer prefix", "token123"},
		{"wrong prefix", "Basic token123"},
		{"only Bearer", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.Header.Set("Authorization", tt.header)

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token format")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	wrapped := AuthMiddleware(setupTestLogger(), testJWTConfig())(forbiddenHandler(t))

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "invalid.token.here"},
		{"empty token", ""},
		{"random string", "randomstring123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token")
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtConfig := testJWTConfig()
	jwtConfig.AccessTokenTTL = time.Nanosecond

	token, _, err := jwtConfig.GenerateAccessToken("user123", "testuser")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	wrapped := AuthMiddleware(setupTestLogger(), jwtConfig)(forbiddenHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_TokenWithWrongSecret(t *testing.T) {
	token, _, err := testJWTConfig().GenerateAccessToken("user123", "testuser")
	require.NoError(t, err)

	otherConfig := testJWTConfig()
	otherConfig.Secret = []byte("different-secret")

	wrapped := AuthMiddleware(setupTestLogger(), otherConfig)(forbiddenHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
