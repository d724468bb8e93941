package api

import "fmt"

// StatusError представляет ошибку HTTP уровня от record store.
// Сохраняет статус код, чтобы retry-слой мог отличить
// транзиентные ошибки (5xx, 429) от терминальных (остальные 4xx).
type StatusError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Retryable сообщает, имеет ли смысл повторять запрос.
// true для 5xx и 429 (rate limited), false для остальных статусов.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
