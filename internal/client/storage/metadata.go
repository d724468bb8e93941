package storage

import (
	"context"

	"github.com/iudanet/crmsync/internal/models"
)

//go:generate go tool moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastSync saves the timestamp of the last successful load of an entity
	SaveLastSync(ctx context.Context, entity models.EntityType, timestamp int64) error

	// GetLastSync retrieves the timestamp of the last successful load
	// Returns 0 if the entity has never been loaded
	GetLastSync(ctx context.Context, entity models.EntityType) (int64, error)
}
