package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Pinger проверяет доступность зависимости (БД, Redis)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	version string
	db      Pinger
	cache   Pinger
}

// NewHealthHandler создает новый handler для health check.
// db и cache опциональны, nil зависимости не проверяются.
func NewHealthHandler(logger *slog.Logger, version string, db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
		db:      db,
		cache:   cache,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	DB      string `json:"db,omitempty"`
	Cache   string `json:"cache,omitempty"`
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	statusCode := http.StatusOK

	if h.db != nil {
		resp.DB = "ok"
		if err := h.db.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "database health check failed", slog.Any("error", err))
			resp.Status = "degraded"
			resp.DB = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}
	}

	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			// Кеш не критичен, сервер продолжает работать мимо него
			h.logger.WarnContext(ctx, "cache health check failed", slog.Any("error", err))
			resp.Cache = "unavailable"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
