package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/crmsync/internal/client/api"
	"github.com/iudanet/crmsync/internal/client/storage"
	pkgapi "github.com/iudanet/crmsync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// signedToken выписывает HS256 токен с заданным сроком действия
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-uuid-123",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// memAuthStorage хранит сессию в памяти поверх мока
func memAuthStorage() *storage.AuthStorageMock {
	var saved *storage.AuthData
	return &storage.AuthStorageMock{
		SaveAuthFunc: func(ctx context.Context, auth *storage.AuthData) error {
			saved = auth
			return nil
		},
		GetAuthFunc: func(ctx context.Context) (*storage.AuthData, error) {
			if saved == nil {
				return nil, storage.ErrAuthNotFound
			}
			return saved, nil
		},
		DeleteAuthFunc: func(ctx context.Context) error {
			if saved == nil {
				return storage.ErrAuthNotFound
			}
			saved = nil
			return nil
		},
		IsAuthenticatedFunc: func(ctx context.Context) (bool, error) {
			return saved != nil && !saved.Expired(time.Now()), nil
		},
	}
}

func TestLogin_Success(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	accessToken := signedToken(t, exp)

	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			assert.Equal(t, "admin", req.Username)
			assert.Equal(t, "password123", req.Password)
			return &pkgapi.TokenResponse{
				UserID:       "user-uuid-123",
				AccessToken:  accessToken,
				RefreshToken: "refresh_token",
				ExpiresIn:    900,
			}, nil
		},
		SetTokenFunc: func(token string) {},
	}
	store := memAuthStorage()
	service := NewAuthService(mockAPI, store, testLogger())

	auth, err := service.Login(context.Background(), "admin", "password123")

	require.NoError(t, err)
	assert.Equal(t, "admin", auth.Username)
	assert.Equal(t, "user-uuid-123", auth.UserID)
	assert.Equal(t, accessToken, auth.AccessToken)
	// Срок взят из exp самого токена
	assert.Equal(t, exp.Unix(), auth.ExpiresAt)

	// Сессия сохранена и токен установлен на клиенте
	require.Len(t, store.SaveAuthCalls(), 1)
	require.Len(t, mockAPI.SetTokenCalls(), 1)
	assert.Equal(t, accessToken, mockAPI.SetTokenCalls()[0].Token)
}

func TestLogin_OpaqueToken(t *testing.T) {
	// Не-JWT токен: срок берется из expires_in
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				UserID:       "user-uuid-123",
				AccessToken:  "opaque_token",
				RefreshToken: "refresh_token",
				ExpiresIn:    900,
			}, nil
		},
		SetTokenFunc: func(token string) {},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())

	before := time.Now().Add(900 * time.Second).Unix()
	auth, err := service.Login(context.Background(), "admin", "password123")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, auth.ExpiresAt, before)
}

func TestLogin_Validation(t *testing.T) {
	mockAPI := &httpClient.ClientAPIMock{}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "ab", "password123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username")

	_, err = service.Login(ctx, "admin", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid password")

	// До сервера запросы не дошли
	assert.Empty(t, mockAPI.LoginCalls())
}

func TestLogin_ServerError(t *testing.T) {
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return nil, &pkgapi.StatusError{StatusCode: 401, Message: "invalid credentials"}
		},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())

	_, err := service.Login(context.Background(), "admin", "wrongpassword")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestLogout(t *testing.T) {
	var revoked string
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				UserID:       "user-uuid-123",
				AccessToken:  signedToken(t, time.Now().Add(time.Hour)),
				RefreshToken: "refresh_token",
			}, nil
		},
		LogoutFunc: func(ctx context.Context, refreshToken string) error {
			revoked = refreshToken
			return nil
		},
		SetTokenFunc: func(token string) {},
	}
	store := memAuthStorage()
	service := NewAuthService(mockAPI, store, testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx))
	assert.Equal(t, "refresh_token", revoked)

	_, err = service.Session(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

// TestLogout_ServerUnavailable проверяет что локальная сессия удаляется
// даже если отзыв на сервере не удался
func TestLogout_ServerUnavailable(t *testing.T) {
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				AccessToken:  signedToken(t, time.Now().Add(time.Hour)),
				RefreshToken: "refresh_token",
			}, nil
		},
		LogoutFunc: func(ctx context.Context, refreshToken string) error {
			return errors.New("connection refused")
		},
		SetTokenFunc: func(token string) {},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx))

	_, err = service.Session(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestLogout_NoSession(t *testing.T) {
	mockAPI := &httpClient.ClientAPIMock{}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())

	require.NoError(t, service.Logout(context.Background()))
	assert.Empty(t, mockAPI.LogoutCalls())
}

func TestRefreshToken(t *testing.T) {
	newAccess := signedToken(t, time.Now().Add(time.Hour))
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				AccessToken:  signedToken(t, time.Now().Add(15*time.Minute)),
				RefreshToken: "old_refresh",
			}, nil
		},
		RefreshFunc: func(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error) {
			assert.Equal(t, "old_refresh", refreshToken)
			return &pkgapi.TokenResponse{
				AccessToken:  newAccess,
				RefreshToken: "new_refresh",
			}, nil
		},
		SetTokenFunc: func(token string) {},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	require.NoError(t, service.RefreshToken(ctx))

	auth, err := service.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, newAccess, auth.AccessToken)
	assert.Equal(t, "new_refresh", auth.RefreshToken)
}

func TestAccessToken_Valid(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{AccessToken: access, RefreshToken: "refresh"}, nil
		},
		SetTokenFunc: func(token string) {},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	token, err := service.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, token)
	assert.Empty(t, mockAPI.RefreshCalls())
}

// TestAccessToken_ExpiringSoon проверяет досрочное обновление токена
func TestAccessToken_ExpiringSoon(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	mockAPI := &httpClient.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			// Токен истекает через 5 секунд, в пределах leeway
			return &pkgapi.TokenResponse{
				AccessToken:  signedToken(t, time.Now().Add(5*time.Second)),
				RefreshToken: "old_refresh",
			}, nil
		},
		RefreshFunc: func(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{AccessToken: fresh, RefreshToken: "new_refresh"}, nil
		},
		SetTokenFunc: func(token string) {},
	}
	service := NewAuthService(mockAPI, memAuthStorage(), testLogger())
	ctx := context.Background()

	_, err := service.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	token, err := service.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, token)
	assert.Len(t, mockAPI.RefreshCalls(), 1)
}

func TestAccessToken_NotAuthenticated(t *testing.T) {
	service := NewAuthService(&httpClient.ClientAPIMock{}, memAuthStorage(), testLogger())

	_, err := service.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := tokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())

	_, ok = tokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
