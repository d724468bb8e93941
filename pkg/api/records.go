package api

import "time"

// Record представляет одну запись CRM в wire-формате
type Record struct {
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
	ID          string         `json:"id"`
}

// RecordsResponse представляет ответ на bulk-загрузку списка записей
type RecordsResponse struct {
	Records   []Record `json:"records"`
	FromCache bool     `json:"fromCache,omitempty"` // true если ответ отдан из серверного кеша
}

// RecordRequest представляет тело запроса на создание или обновление записи
type RecordRequest struct {
	Fields map[string]any `json:"fields"`
}

// RecordResponse представляет ответ на создание/обновление одной записи
type RecordResponse struct {
	Record  Record `json:"record"`
	Success bool   `json:"success"`
}

// DeleteResponse представляет ответ на удаление одной записи
type DeleteResponse struct {
	Success bool `json:"success"`
}

// BulkDeleteRequest представляет запрос на массовое удаление записей
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse представляет ответ на массовое удаление.
// Частичный отказ не является ошибкой: deleted < requested,
// а неудаленные id перечислены в errors.
type BulkDeleteResponse struct {
	DeletedIDs []string `json:"deletedIds"`
	Errors     []string `json:"errors,omitempty"`
	Deleted    int      `json:"deleted"`
	Requested  int      `json:"requested"`
	Success    bool     `json:"success"`
}
