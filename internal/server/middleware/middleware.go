// Package middleware содержит HTTP middleware сервера записей:
// аутентификация, логирование, rate limiting, recovery.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/crmsync/pkg/api"
)

// sendError отправляет JSON ошибку в том же формате, что и handlers
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
