package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
	"github.com/iudanet/crmsync/internal/validation"
	"github.com/iudanet/crmsync/pkg/api"
)

// reservedParams параметры запроса, которые не являются фильтрами
// по доменным полям
var reservedParams = map[string]bool{
	"loadAll":       true,
	"sortField":     true,
	"sortDirection": true,
	"skipCache":     true,
	"_t":            true,
}

// ListCache кеширует результаты list-запросов. Nil-реализация допустима,
// тогда каждый list идет мимо кеша в БД.
type ListCache interface {
	Get(ctx context.Context, entity models.EntityType, query storage.ListQuery) ([]*models.Record, bool, error)
	Set(ctx context.Context, entity models.EntityType, query storage.ListQuery, records []*models.Record) error
	Invalidate(ctx context.Context, entity models.EntityType) error
}

// RecordsHandler обрабатывает CRUD запросы к записям CRM
type RecordsHandler struct {
	logger  *slog.Logger
	records storage.RecordStorage
	cache   ListCache
}

// NewRecordsHandler создает новый handler для записей.
// cache может быть nil, тогда кеширование выключено.
func NewRecordsHandler(logger *slog.Logger, records storage.RecordStorage, cache ListCache) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		records: records,
		cache:   cache,
	}
}

// List обрабатывает GET /api/v1/{entity}
// Возвращает все записи сущности, подходящие под фильтры из query string
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entity, ok := h.parseEntity(w, r)
	if !ok {
		return
	}

	query, skipCache, err := parseListQuery(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Кеш обслуживает только обычные запросы; skipCache и
	// Cache-Control: no-store идут напрямую в БД
	if h.cache != nil && !skipCache {
		records, hit, err := h.cache.Get(ctx, entity, query)
		if err != nil {
			h.logger.WarnContext(ctx, "cache lookup failed", slog.String("entity", string(entity)), slog.Any("error", err))
		} else if hit {
			h.sendJSON(w, api.RecordsResponse{Records: toAPIRecords(records), FromCache: true}, http.StatusOK)
			return
		}
	}

	records, err := h.records.ListRecords(ctx, entity, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list records", slog.String("entity", string(entity)), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil && !skipCache {
		if err := h.cache.Set(ctx, entity, query, records); err != nil {
			h.logger.WarnContext(ctx, "cache store failed", slog.String("entity", string(entity)), slog.Any("error", err))
		}
	}

	h.sendJSON(w, api.RecordsResponse{Records: toAPIRecords(records)}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/{entity}
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entity, ok := h.parseEntity(w, r)
	if !ok {
		return
	}

	fields, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	record := &models.Record{
		ID:     uuid.New().String(),
		Fields: fields,
	}

	if err := h.records.CreateRecord(ctx, entity, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to create record", slog.String("entity", string(entity)), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.invalidate(ctx, entity)

	h.logger.InfoContext(ctx, "record created",
		slog.String("entity", string(entity)),
		slog.String("record_id", record.ID))

	h.sendJSON(w, api.RecordResponse{Record: toAPIRecord(record), Success: true}, http.StatusCreated)
}

// Update обрабатывает PATCH /api/v1/{entity}/{id}
// Частичное обновление: переданные поля накладываются на существующие
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.records.UpdateRecord)
}

// Replace обрабатывает PUT /api/v1/{entity}/{id}
// Полная замена attribute bag записи
func (h *RecordsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.records.ReplaceRecord)
}

type writeFunc func(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)

func (h *RecordsHandler) update(w http.ResponseWriter, r *http.Request, write writeFunc) {
	ctx := r.Context()

	entity, ok := h.parseEntity(w, r)
	if !ok {
		return
	}

	id, ok := h.parseRecordID(w, r)
	if !ok {
		return
	}

	fields, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	record, err := write(ctx, entity, id, fields)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			h.sendError(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update record",
			slog.String("entity", string(entity)),
			slog.String("record_id", id),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.invalidate(ctx, entity)

	h.sendJSON(w, api.RecordResponse{Record: toAPIRecord(record), Success: true}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/{entity}/{id}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entity, ok := h.parseEntity(w, r)
	if !ok {
		return
	}

	id, ok := h.parseRecordID(w, r)
	if !ok {
		return
	}

	if err := h.records.DeleteRecord(ctx, entity, id); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			h.sendError(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete record",
			slog.String("entity", string(entity)),
			slog.String("record_id", id),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.invalidate(ctx, entity)

	h.logger.InfoContext(ctx, "record deleted",
		slog.String("entity", string(entity)),
		slog.String("record_id", id))

	h.sendJSON(w, api.DeleteResponse{Success: true}, http.StatusOK)
}

// BulkDelete обрабатывает DELETE /api/v1/{entity} с телом запроса.
// Частичный отказ не превращается в HTTP ошибку: ответ перечисляет,
// что удалилось, а что нет.
func (h *RecordsHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entity, ok := h.parseEntity(w, r)
	if !ok {
		return
	}

	var req api.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		h.sendError(w, "ids is required", http.StatusBadRequest)
		return
	}

	resp := api.BulkDeleteResponse{
		Requested: len(req.IDs),
	}

	for _, id := range req.IDs {
		if err := validation.ValidateRecordID(id); err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		if err := h.records.DeleteRecord(ctx, entity, id); err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				resp.Errors = append(resp.Errors, fmt.Sprintf("record %s not found", id))
				continue
			}
			h.logger.ErrorContext(ctx, "failed to delete record",
				slog.String("entity", string(entity)),
				slog.String("record_id", id),
				slog.Any("error", err))
			resp.Errors = append(resp.Errors, fmt.Sprintf("record %s: internal error", id))
			continue
		}
		resp.DeletedIDs = append(resp.DeletedIDs, id)
	}

	resp.Deleted = len(resp.DeletedIDs)
	resp.Success = len(resp.Errors) == 0

	if resp.Deleted > 0 {
		h.invalidate(ctx, entity)
	}

	h.logger.InfoContext(ctx, "bulk delete completed",
		slog.String("entity", string(entity)),
		slog.Int("requested", resp.Requested),
		slog.Int("deleted", resp.Deleted))

	h.sendJSON(w, resp, http.StatusOK)
}

// parseListQuery строит ListQuery из query string.
// Все параметры кроме служебных трактуются как фильтры по полям.
func parseListQuery(r *http.Request) (storage.ListQuery, bool, error) {
	values := r.URL.Query()

	query := storage.ListQuery{
		SortField:     values.Get("sortField"),
		SortDirection: values.Get("sortDirection"),
	}

	for name, vals := range values {
		if reservedParams[name] || len(vals) == 0 {
			continue
		}
		if !validation.FieldNamePattern.MatchString(name) {
			return storage.ListQuery{}, false, fmt.Errorf("invalid filter name: %q", name)
		}
		if query.Filters == nil {
			query.Filters = make(map[string]string)
		}
		query.Filters[name] = vals[0]
	}

	if query.SortField != "" && !validation.FieldNamePattern.MatchString(query.SortField) {
		return storage.ListQuery{}, false, fmt.Errorf("invalid sortField: %q", query.SortField)
	}

	skipCache := values.Get("skipCache") == "true" || r.Header.Get("Cache-Control") == "no-store"

	return query, skipCache, nil
}

func (h *RecordsHandler) parseEntity(w http.ResponseWriter, r *http.Request) (models.EntityType, bool) {
	entity := models.EntityType(r.PathValue("entity"))
	if err := validation.ValidateEntity(entity); err != nil {
		h.sendError(w, err.Error(), http.StatusNotFound)
		return "", false
	}
	return entity, true
}

func (h *RecordsHandler) parseRecordID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := validation.ValidateRecordID(id); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (h *RecordsHandler) parseFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var req api.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := validation.ValidateFields(req.Fields); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return req.Fields, true
}

// invalidate сбрасывает кеш списков сущности после мутации
func (h *RecordsHandler) invalidate(ctx context.Context, entity models.EntityType) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, entity); err != nil {
		h.logger.WarnContext(ctx, "cache invalidation failed", slog.String("entity", string(entity)), slog.Any("error", err))
	}
}

func toAPIRecord(r *models.Record) api.Record {
	return api.Record{
		ID:          r.ID,
		Fields:      r.Fields,
		CreatedTime: r.CreatedTime,
	}
}

func toAPIRecords(records []*models.Record) []api.Record {
	out := make([]api.Record, 0, len(records))
	for _, r := range records {
		out = append(out, toAPIRecord(r))
	}
	return out
}

// sendJSON отправляет JSON ответ
func (h *RecordsHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *RecordsHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
