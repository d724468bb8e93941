package storage

import (
	"context"
	"time"

	"github.com/iudanet/crmsync/internal/models"
)

//go:generate go tool moq -out snapshots_mock.go . SnapshotStorage

// Snapshot represents a persisted copy of an entity collection.
// Снапшоты дают офлайн-чтение: последняя успешно загруженная коллекция
// доступна и без сети.
type Snapshot struct {
	SavedAt time.Time         `json:"saved_at"`
	Filters map[string]string `json:"filters,omitempty"`
	Records []*models.Record  `json:"records"`
	Entity  models.EntityType `json:"entity"`
}

// SnapshotStorage defines interface for persisting entity collections
type SnapshotStorage interface {
	// SaveSnapshot stores the collection, replacing the previous snapshot
	// of the same entity
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// GetSnapshot retrieves the last saved collection of an entity
	// Returns ErrSnapshotNotFound if the entity was never saved
	GetSnapshot(ctx context.Context, entity models.EntityType) (*Snapshot, error)

	// DeleteSnapshots removes all stored snapshots (logout)
	DeleteSnapshots(ctx context.Context) error
}
