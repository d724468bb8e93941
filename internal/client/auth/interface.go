package auth

import (
	"context"

	"github.com/iudanet/crmsync/internal/client/storage"
)

//go:generate go tool moq -out service_mock.go . Service

// Service defines the interface for session management.
// Сервис владеет локальной сессией: логин, обновление токенов,
// выход и выдача действующего access token для API запросов.
type Service interface {
	// Login выполняет аутентификацию и сохраняет сессию локально
	Login(ctx context.Context, username, password string) (*storage.AuthData, error)

	// Logout отзывает refresh token на сервере и удаляет локальную сессию
	Logout(ctx context.Context) error

	// RefreshToken обновляет пару токенов по сохраненному refresh token
	RefreshToken(ctx context.Context) error

	// IsAuthenticated проверяет наличие действующей сессии
	IsAuthenticated(ctx context.Context) (bool, error)

	// Session возвращает сохраненную сессию
	// Возвращает storage.ErrAuthNotFound, если сессии нет
	Session(ctx context.Context) (*storage.AuthData, error)

	// AccessToken возвращает действующий access token,
	// обновляя пару токенов если текущий истек или вот-вот истечет
	AccessToken(ctx context.Context) (string, error)
}
