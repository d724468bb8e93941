package storage

import (
	"context"

	"github.com/iudanet/crmsync/internal/models"
)

// ListQuery описывает параметры выборки коллекции
type ListQuery struct {
	// Filters сравнивает доменные поля записи на точное равенство
	Filters map[string]string
	// SortField поле сортировки, пустое значение сортирует по created_time
	SortField string
	// SortDirection "asc" или "desc", пустое значение трактуется как "asc"
	SortDirection string
}

// RecordStorage defines interface for CRM record persistence
type RecordStorage interface {
	// CreateRecord inserts a new record
	// Returns ErrRecordAlreadyExists if id is taken within the entity
	CreateRecord(ctx context.Context, entity models.EntityType, record *models.Record) error

	// GetRecord retrieves a record by id
	// Returns ErrRecordNotFound if record doesn't exist
	GetRecord(ctx context.Context, entity models.EntityType, id string) (*models.Record, error)

	// ListRecords retrieves all records of the entity matching the query
	ListRecords(ctx context.Context, entity models.EntityType, query ListQuery) ([]*models.Record, error)

	// UpdateRecord merges fields into an existing record and returns the result
	// Returns ErrRecordNotFound if record doesn't exist
	UpdateRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)

	// ReplaceRecord replaces the whole attribute bag of an existing record
	// Returns ErrRecordNotFound if record doesn't exist
	ReplaceRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)

	// DeleteRecord deletes a record by id
	// Returns ErrRecordNotFound if record doesn't exist
	DeleteRecord(ctx context.Context, entity models.EntityType, id string) error
}
