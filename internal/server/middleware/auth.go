package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/crmsync/internal/server/handlers"
)

var errNoBearer = errors.New("authorization header is not a bearer token")

// bearerToken извлекает токен из заголовка Authorization.
// Пустая строка без ошибки означает, что заголовка нет.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errNoBearer
	}

	return parts[1], nil
}

// AuthMiddleware пускает дальше только запросы с валидным access token.
// Claims токена кладутся в контекст, handlers достают их через
// GetUserID и GetUsername.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				logger.Warn("invalid Authorization header format")
				sendError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}
			if token == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				sendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			claims, err := jwtConfig.ValidateAccessToken(token)
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				sendError(logger, w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, handlers.UsernameKey, claims.Username)

			logger.Debug("user authenticated", "user_id", claims.UserID, "username", claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
