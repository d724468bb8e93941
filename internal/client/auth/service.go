package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	httpClient "github.com/iudanet/crmsync/internal/client/api"
	"github.com/iudanet/crmsync/internal/client/storage"
	"github.com/iudanet/crmsync/internal/validation"
	pkgapi "github.com/iudanet/crmsync/pkg/api"
)

// refreshLeeway задает запас до истечения access token, при котором
// токен считается истекшим и обновляется заранее
const refreshLeeway = 30 * time.Second

// AuthService предоставляет функции авторизации клиента
type AuthService struct {
	apiClient httpClient.ClientAPI
	storage   storage.AuthStorage
	logger    *slog.Logger
	now       func() time.Time
}

var _ Service = (*AuthService)(nil)

// NewAuthService создает новый сервис авторизации
func NewAuthService(apiClient httpClient.ClientAPI, authStorage storage.AuthStorage, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		apiClient: apiClient,
		storage:   authStorage,
		logger:    logger,
		now:       time.Now,
	}
}

// Login выполняет аутентификацию пользователя и сохраняет сессию
func (s *AuthService) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	auth := &storage.AuthData{
		Username:     username,
		UserID:       resp.UserID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    s.expiresAt(resp),
	}
	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.apiClient.SetToken(auth.AccessToken)
	s.logger.Info("User logged in", "username", username, "user_id", resp.UserID)

	return auth, nil
}

// Logout отзывает refresh token на сервере и удаляет локальную сессию
func (s *AuthService) Logout(ctx context.Context) error {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	// Отзыв на сервере best-effort: локальная сессия удаляется
	// даже если сервер недоступен
	if err := s.apiClient.Logout(ctx, auth.RefreshToken); err != nil {
		s.logger.Warn("Server-side logout failed", "error", err)
	}

	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.apiClient.SetToken("")
	s.logger.Info("User logged out", "username", auth.Username)
	return nil
}

// RefreshToken обновляет пару токенов по сохраненному refresh token
func (s *AuthService) RefreshToken(ctx context.Context) error {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	resp, err := s.apiClient.Refresh(ctx, auth.RefreshToken)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	auth.AccessToken = resp.AccessToken
	auth.RefreshToken = resp.RefreshToken
	auth.ExpiresAt = s.expiresAt(resp)

	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save refreshed session: %w", err)
	}

	s.apiClient.SetToken(auth.AccessToken)
	s.logger.Debug("Tokens refreshed", "username", auth.Username)
	return nil
}

// IsAuthenticated проверяет наличие действующей сессии
func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.storage.IsAuthenticated(ctx)
}

// Session возвращает сохраненную сессию
func (s *AuthService) Session(ctx context.Context) (*storage.AuthData, error) {
	return s.storage.GetAuth(ctx)
}

// AccessToken возвращает действующий access token,
// обновляя пару токенов при необходимости
func (s *AuthService) AccessToken(ctx context.Context) (string, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("not authenticated: %w", err)
	}

	if s.expiringSoon(auth) {
		if err := s.RefreshToken(ctx); err != nil {
			return "", err
		}
		auth, err = s.storage.GetAuth(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read refreshed session: %w", err)
		}
	}

	s.apiClient.SetToken(auth.AccessToken)
	return auth.AccessToken, nil
}

// expiringSoon проверяет, что access token истек или истечет в пределах leeway
func (s *AuthService) expiringSoon(auth *storage.AuthData) bool {
	if auth.ExpiresAt == 0 {
		return false
	}
	return s.now().Add(refreshLeeway).Unix() >= auth.ExpiresAt
}

// expiresAt вычисляет срок действия access token.
// Приоритет у exp из самого токена, expires_in из ответа используется как запасной вариант.
func (s *AuthService) expiresAt(resp *pkgapi.TokenResponse) int64 {
	if exp, ok := tokenExpiry(resp.AccessToken); ok {
		return exp.Unix()
	}
	if resp.ExpiresIn > 0 {
		return s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix()
	}
	return 0
}

// tokenExpiry извлекает exp из access token без проверки подписи.
// Клиент не владеет ключом подписи, срок нужен только для планирования refresh.
func tokenExpiry(tokenString string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
